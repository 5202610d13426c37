package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Asset holds the structure for the assets collection in mongo. One asset
// is registered per successfully stored upload so that complaints can
// reference the blob by URL.
type Asset struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Filename   string             `json:"filename" bson:"filename"`
	URL        string             `json:"url" bson:"url"`
	MediaType  string             `json:"mediaType" bson:"mediaType"`
	SizeBytes  int64              `json:"sizeBytes" bson:"sizeBytes"`
	UploadedAt primitive.DateTime `json:"uploadedAt" bson:"uploadedAt"`
}

// UploadResponse is returned by the upload endpoint on success
type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}
