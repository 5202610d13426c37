package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/parentalrights/complaint-portal-api/api"
	"github.com/parentalrights/complaint-portal-api/config"
	"github.com/parentalrights/complaint-portal-api/databases"
	"github.com/parentalrights/complaint-portal-api/models"
)

// Post exported for testing purposes
type Post struct {
	DB   databases.PostDatabase
	Feed *FeedHub
}

// CreatePostHandler creates a community feed post for the authenticated user
func (p Post) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(post.Body) == "" {
		config.ErrorStatus("post body is required", http.StatusBadRequest, w, errEmptyPostBody)
		return
	}

	// The author always comes from the verified identity, never the body
	ident, _ := api.IdentityFromContext(r.Context())
	post.ID = primitive.NewObjectID()
	post.UserID = ident.UserID
	post.Author = strings.TrimSpace(ident.FirstName + " " + ident.LastName)
	post.CreatedAt = primitive.NewDateTimeFromTime(time.Now().UTC())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := p.DB.InsertOne(ctx, post); err != nil {
		config.ErrorStatus("failed to create post", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("post created", "postId", post.ID.Hex(), "userId", post.UserID)

	if p.Feed != nil {
		p.Feed.Broadcast("post.created", post)
	}

	b, err := json.Marshal(post)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// PostsHandler returns the community feed, newest first
func (p Post) PostsHandler(w http.ResponseWriter, r *http.Request) {
	limit, page := pageParams(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(page * limit)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := p.DB.Find(ctx, bson.M{}, opts)
	if err != nil {
		config.ErrorStatus("failed to get posts", http.StatusNotFound, w, err)
		return
	}
	if dbResp == nil {
		dbResp = []models.Post{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

var errEmptyPostBody = errors.New("post body is empty")
