package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Post holds the structure for the posts collection in mongo
type Post struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Author    string             `json:"author" bson:"author"`
	Body      string             `json:"body" bson:"body"`
	ImageURL  string             `json:"imageUrl" bson:"imageUrl"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
