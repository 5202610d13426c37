package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/parentalrights/complaint-portal-api/config"
	"github.com/parentalrights/complaint-portal-api/databases"
	"github.com/parentalrights/complaint-portal-api/intake"
	"github.com/parentalrights/complaint-portal-api/models"
	"github.com/parentalrights/complaint-portal-api/storage"
)

// maxUploadBytes caps how much of a multipart body is held in memory
const maxUploadBytes = 32 << 20

// Upload handles attachment uploads: the blob goes to object storage and
// the stored asset is registered in the assets collection
type Upload struct {
	Store storage.Uploader
	ADB   databases.AssetDatabase
}

// UploadHandler accepts one multipart file field named "file", stores it
// and returns the durable URL
func (u Upload) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		config.ErrorStatus("method not allowed", http.StatusMethodNotAllowed, w, fmt.Errorf("got %s, want POST", r.Method))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		config.ErrorStatus("no file uploaded", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()

	url, err := u.storeFile(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		config.ErrorStatus("failed to store file", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.UploadResponse{Success: true, URL: url})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// Upload stores a draft attachment, satisfying the submission pipeline's
// uploader contract with the same path the HTTP endpoint uses
func (u Upload) Upload(ctx context.Context, file *intake.Attachment) (string, error) {
	return u.storeFile(ctx, file.Name, file.MediaType, int64(len(file.Data)), bytes.NewReader(file.Data))
}

// storeFile pushes the blob to object storage under a timestamped name and
// registers the asset. The asset record failing is a hard error; the blob
// already exists at that point but nothing references it.
func (u Upload) storeFile(ctx context.Context, filename, mediaType string, size int64, contents io.Reader) (string, error) {
	name := storage.BlobName(filename)
	url, err := u.Store.Upload(ctx, name, contents)
	if err != nil {
		return "", fmt.Errorf("failed to upload to blob storage: %w", err)
	}

	asset := models.Asset{
		ID:         primitive.NewObjectID(),
		Filename:   filename,
		URL:        url,
		MediaType:  mediaType,
		SizeBytes:  size,
		UploadedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := u.ADB.InsertOne(ctx, asset); err != nil {
		return "", fmt.Errorf("failed to register asset: %w", err)
	}

	zap.S().Infow("stored upload",
		"blob", name,
		"bytes", size,
	)
	return url, nil
}
