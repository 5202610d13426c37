package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Complaint holds the structure for the complaints collection in mongo.
// The json field names are the wire contract shared with the web client
// and any downstream reader; do not rename them.
type Complaint struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID          string             `json:"userId" bson:"userId"`
	FirstName       string             `json:"firstName" bson:"firstName"`
	LastName        string             `json:"lastName" bson:"lastName"`
	Email           string             `json:"email" bson:"email"`
	Phone           string             `json:"phone" bson:"phone"`
	Claimants       []string           `json:"claimants" bson:"claimants"`
	Defendants      []string           `json:"defendants" bson:"defendants"`
	Witnesses       []string           `json:"witnesses" bson:"witnesses"`
	CaseNumbers     []string           `json:"caseNumbers" bson:"caseNumbers"`
	LegalViolations []string           `json:"legalViolations" bson:"legalViolations"`
	Subject         string             `json:"subject" bson:"subject"`
	Description     string             `json:"description" bson:"description"`
	FileURL         string             `json:"fileUrl" bson:"fileUrl"`
	ConsentGiven    bool               `json:"consentGiven" bson:"consentGiven"`
	SubmittedAt     primitive.DateTime `json:"submittedAt" bson:"submittedAt"`
}

// ComplaintCreatedResponse is returned by the document-create endpoint
type ComplaintCreatedResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
