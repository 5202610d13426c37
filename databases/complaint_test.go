package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parentalrights/complaint-portal-api/config"
	"github.com/parentalrights/complaint-portal-api/databases"
	"github.com/parentalrights/complaint-portal-api/databases/mocks"
	"github.com/parentalrights/complaint-portal-api/models"
)

func TestNewComplaintDatabase(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	complaintDB := databases.NewComplaintDatabase(db)

	assert.NotEmpty(t, complaintDB)
}

func TestComplaintDatabase_FindOne(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	oid, _ := primitive.ObjectIDFromHex("5fc51f58c72ff10004dca382")

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Complaint)
		(*arg).ID = oid
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "complaints").Return(collectionHelper)

	// Create new database with mocked Database interface
	complaintDba := databases.NewComplaintDatabase(dbHelper)

	// Call method with defined filter, that in our mocked function returns
	// mocked-error
	complaint, err := complaintDba.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, complaint)
	assert.EqualError(t, err, "mocked-error")

	// Now call the same function with different filter for correct
	// result
	complaint, err = complaintDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, &models.Complaint{ID: oid}, complaint)
	assert.NoError(t, err)
}

func TestComplaintDatabase_Find(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorHelperCorrect databases.CursorHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorHelperCorrect = &mocks.CursorHelper{}

	cursorHelperCorrect.(*mocks.CursorHelper).
		On("All", mock.Anything, mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Complaint)
		*arg = []models.Complaint{{UserID: "user_123"}}
	})
	cursorHelperCorrect.(*mocks.CursorHelper).
		On("Close", mock.Anything).
		Return(nil)

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": true}).
		Return(nil, errors.New("mocked-error"))

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": false}).
		Return(cursorHelperCorrect, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "complaints").Return(collectionHelper)

	complaintDba := databases.NewComplaintDatabase(dbHelper)

	complaints, err := complaintDba.Find(context.Background(), bson.M{"error": true})

	assert.Empty(t, complaints)
	assert.EqualError(t, err, "mocked-error")

	complaints, err = complaintDba.Find(context.Background(), bson.M{"error": false})

	assert.Equal(t, []models.Complaint{{UserID: "user_123"}}, complaints)
	assert.NoError(t, err)
}

func TestComplaintDatabase_InsertOne(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var iorHelper databases.InsertOneResultHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	iorHelper = &mocks.InsertOneResultHelper{}

	oid, _ := primitive.ObjectIDFromHex("5fc51f58c72ff10004dca382")

	iorHelper.(*mocks.InsertOneResultHelper).
		On("Decode").
		Return(oid)

	collectionHelper.(*mocks.CollectionHelper).
		On("InsertOne", mock.Anything, mock.Anything).
		Return(iorHelper, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "complaints").Return(collectionHelper)

	complaintDba := databases.NewComplaintDatabase(dbHelper)

	res, err := complaintDba.InsertOne(context.Background(), models.Complaint{ID: oid})

	assert.NoError(t, err)
	assert.Equal(t, oid, res.Decode())
}

func TestComplaintDatabase_CountDocuments(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	collectionHelper.(*mocks.CollectionHelper).
		On("CountDocuments", mock.Anything, mock.Anything).
		Return(int64(7), nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "complaints").Return(collectionHelper)

	complaintDba := databases.NewComplaintDatabase(dbHelper)

	count, err := complaintDba.CountDocuments(context.Background(), bson.M{})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
