package databases

// go generate: mockery --name ComplaintDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parentalrights/complaint-portal-api/models"
)

const complaintName = "complaints"

// ComplaintDatabase contains the methods to use with the complaint database.
// Complaints are create-only records: no update or delete is exposed.
type ComplaintDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Complaint, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Complaint, error)
	InsertOne(ctx context.Context, complaint models.Complaint, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type complaintDatabase struct {
	db DatabaseHelper
}

// NewComplaintDatabase initializes a new instance of complaint database with the provided db connection
func NewComplaintDatabase(db DatabaseHelper) ComplaintDatabase {
	return &complaintDatabase{
		db: db,
	}
}

func (c *complaintDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	err := c.db.Collection(complaintName).FindOne(ctx, filter, opts...).Decode(&complaint)
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func (c *complaintDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Complaint, error) {
	var complaints []models.Complaint
	curr, err := c.db.Collection(complaintName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &complaints)
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (c *complaintDatabase) InsertOne(ctx context.Context, complaint models.Complaint, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(complaintName).InsertOne(ctx, complaint, opts...)
	return res, err
}

func (c *complaintDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(complaintName).CountDocuments(ctx, filter, opts...)
}
