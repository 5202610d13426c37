package databases

// go generate: mockery --name PostDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parentalrights/complaint-portal-api/models"
)

const postName = "posts"

// PostDatabase contains the methods to use with the post database
type PostDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Post, error)
	InsertOne(ctx context.Context, post models.Post, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type postDatabase struct {
	db DatabaseHelper
}

// NewPostDatabase initializes a new instance of post database with the provided db connection
func NewPostDatabase(db DatabaseHelper) PostDatabase {
	return &postDatabase{
		db: db,
	}
}

func (p *postDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Post, error) {
	var posts []models.Post
	curr, err := p.db.Collection(postName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (p *postDatabase) InsertOne(ctx context.Context, post models.Post, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := p.db.Collection(postName).InsertOne(ctx, post, opts...)
	return res, err
}

func (p *postDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return p.db.Collection(postName).CountDocuments(ctx, filter, opts...)
}
