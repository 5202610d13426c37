package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores a blob and returns its durable public URL
type Uploader interface {
	Upload(ctx context.Context, name string, contents io.Reader) (string, error)
}

// CloudinaryUploader stores blobs in a Cloudinary folder
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// URL
func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// Upload pushes the blob to Cloudinary under the given public ID and returns
// the secure delivery URL
func (u *CloudinaryUploader) Upload(ctx context.Context, name string, contents io.Reader) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, contents, uploader.UploadParams{
		PublicID:     name,
		Folder:       u.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

// BlobName derives the stored object name from the current time plus the
// original filename, matching the web client's convention. There is no
// existence check; the timestamp prefix keeps collisions negligible.
func BlobName(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), base)
}
