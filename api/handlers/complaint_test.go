package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parentalrights/complaint-portal-api/api/handlers"
	"github.com/parentalrights/complaint-portal-api/databases"
	mocksdb "github.com/parentalrights/complaint-portal-api/databases/mocks"
	"github.com/parentalrights/complaint-portal-api/models"
)

func TestComplaint_CreateComplaintHandlerMethodNotAllowed(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/submit-to-sanity", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	c := handlers.Complaint{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.CreateComplaintHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusMethodNotAllowed {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusMethodNotAllowed)
	}
}

func TestComplaint_CreateComplaintHandlerBadBody(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/submit-to-sanity", bytes.NewBufferString("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	c := handlers.Complaint{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.CreateComplaintHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
}

func TestComplaint_CreateComplaintHandlerInsertError(t *testing.T) {
	body, _ := json.Marshal(models.Complaint{
		UserID:    "user_123",
		FirstName: "Dana",
		LastName:  "Whitfield",
		Email:     "dana@example.com",
		Subject:   "Case worker misconduct",
	})
	req, err := http.NewRequest("POST", "/api/submit-to-sanity", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper

	db = &mocksdb.DatabaseHelper{}
	conn = &mocksdb.CollectionHelper{}

	conn.(*mocksdb.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	db.(*mocksdb.DatabaseHelper).On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB: databases.NewComplaintDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.CreateComplaintHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusInternalServerError {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
	}

	expected := `{"response": "failed to create complaint, mocked-error"}`
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: \ngot: %v \nwant: %v", rr.Body.String(), expected)
	}
}

func TestComplaint_CreateComplaintHandlerSuccess(t *testing.T) {
	body, _ := json.Marshal(models.Complaint{
		UserID:          "user_123",
		FirstName:       "Dana",
		LastName:        "Whitfield",
		Email:           "",
		Subject:         "Case worker misconduct",
		Description:     "Repeated unannounced visits without cause.",
		LegalViolations: []string{"Due Process Violation"},
		ConsentGiven:    true,
	})
	req, err := http.NewRequest("POST", "/api/submit-to-sanity", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var insertResult databases.InsertOneResultHelper

	db = &mocksdb.DatabaseHelper{}
	conn = &mocksdb.CollectionHelper{}
	insertResult = &mocksdb.InsertOneResultHelper{}

	conn.(*mocksdb.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	db.(*mocksdb.DatabaseHelper).On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB: databases.NewComplaintDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.CreateComplaintHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var resp models.ComplaintCreatedResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	assert.True(t, resp.Success)
	_, err = primitive.ObjectIDFromHex(resp.ID)
	assert.NoError(t, err, "id should be a valid object id hex")
}

func TestComplaint_ComplaintByIDHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/complaint/1234", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"complaint_id": "1234"})
	req.Header.Set("Authorization", "Bearer abc123")

	c := handlers.Complaint{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ComplaintByIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}

	expected := `{"response": "failed to get objectID from Hex, the provided hex string is not a valid ObjectID"}`
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: \ngot: %v \nwant: %v", rr.Body.String(), expected)
	}
}

func TestComplaint_ComplaintByIDHandlerNotFound(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/complaint/5fc51f58c72ff10004dca999", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"complaint_id": "5fc51f58c72ff10004dca999"})
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &mocksdb.DatabaseHelper{}
	conn = &mocksdb.CollectionHelper{}
	singleResultHelper = &mocksdb.SingleResultHelper{}

	singleResultHelper.(*mocksdb.SingleResultHelper).On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.(*mocksdb.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*mocksdb.DatabaseHelper).On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB: databases.NewComplaintDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ComplaintByIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}

	expected := `{"response": "failed to get complaint by ID, mongo: no documents in result"}`
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: \ngot: %v \nwant: %v", rr.Body.String(), expected)
	}
}

func TestComplaint_ComplaintByIDHandlerSuccess(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/complaint/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"complaint_id": "5fc51f58c72ff10004dca382"})
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &mocksdb.DatabaseHelper{}
	conn = &mocksdb.CollectionHelper{}
	singleResultHelper = &mocksdb.SingleResultHelper{}

	oid, _ := primitive.ObjectIDFromHex("5fc51f58c72ff10004dca382")

	singleResultHelper.(*mocksdb.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Complaint)
		(*arg).ID = oid
		(*arg).Subject = "Case worker misconduct"
	})
	conn.(*mocksdb.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*mocksdb.DatabaseHelper).On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB: databases.NewComplaintDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ComplaintByIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var testComplaint models.Complaint
	_ = json.Unmarshal(rr.Body.Bytes(), &testComplaint)

	assert.Equal(t, oid, testComplaint.ID)
	assert.Equal(t, "Case worker misconduct", testComplaint.Subject)
}

func TestComplaint_ComplaintsByUserIDHandlerFindError(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/complaints/user/user_123", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"user_id": "user_123"})
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper

	db = &mocksdb.DatabaseHelper{}
	conn = &mocksdb.CollectionHelper{}

	conn.(*mocksdb.CollectionHelper).On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	db.(*mocksdb.DatabaseHelper).On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB: databases.NewComplaintDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ComplaintsByUserIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
}

func TestComplaint_ComplaintsByUserIDHandlerEmptyResponse(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/complaints/user/user_123", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"user_id": "user_123"})
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var cursorHelper databases.CursorHelper

	db = &mocksdb.DatabaseHelper{}
	conn = &mocksdb.CollectionHelper{}
	cursorHelper = &mocksdb.CursorHelper{}

	cursorHelper.(*mocksdb.CursorHelper).On("All", mock.Anything, mock.Anything).Return(nil)
	cursorHelper.(*mocksdb.CursorHelper).On("Close", mock.Anything).Return(nil)
	conn.(*mocksdb.CollectionHelper).On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursorHelper, nil)
	db.(*mocksdb.DatabaseHelper).On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB: databases.NewComplaintDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ComplaintsByUserIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	expected := "[]"
	if rr.Body.String() != expected {
		t.Errorf("handler returned unexpected body: \ngot: %v \nwant: %v", rr.Body.String(), expected)
	}
}

func TestComplaint_ComplaintsByUserIDHandlerSuccess(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/complaints/user/user_123?limit=5&page=2", nil)
	if err != nil {
		t.Fatal(err)
	}

	req = mux.SetURLVars(req, map[string]string{"user_id": "user_123"})
	req.Header.Set("Authorization", "Bearer abc123")

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var cursorHelper databases.CursorHelper

	db = &mocksdb.DatabaseHelper{}
	conn = &mocksdb.CollectionHelper{}
	cursorHelper = &mocksdb.CursorHelper{}

	oid, _ := primitive.ObjectIDFromHex("5fc51f58c72ff10004dca382")

	cursorHelper.(*mocksdb.CursorHelper).On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Complaint)
		*arg = []models.Complaint{{ID: oid, UserID: "user_123"}}
	})
	cursorHelper.(*mocksdb.CursorHelper).On("Close", mock.Anything).Return(nil)
	conn.(*mocksdb.CollectionHelper).On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursorHelper, nil)
	db.(*mocksdb.DatabaseHelper).On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB: databases.NewComplaintDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(c.ComplaintsByUserIDHandler)

	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var testComplaints []models.Complaint
	_ = json.Unmarshal(rr.Body.Bytes(), &testComplaints)

	assert.Len(t, testComplaints, 1)
	assert.Equal(t, "user_123", testComplaints[0].UserID)
}

func TestComplaint_CreateKeepsCallerSubmittedAt(t *testing.T) {
	suppliedAt := primitive.NewDateTimeFromTime(time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC))
	body, _ := json.Marshal(models.Complaint{
		UserID:       "user_123",
		FirstName:    "Dana",
		LastName:     "Whitfield",
		Subject:      "Case worker misconduct",
		Description:  "Repeated unannounced visits without cause.",
		ConsentGiven: true,
		SubmittedAt:  suppliedAt,
	})
	req, err := http.NewRequest("POST", "/api/submit-to-sanity", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var insertResult databases.InsertOneResultHelper

	db = &mocksdb.DatabaseHelper{}
	conn = &mocksdb.CollectionHelper{}
	insertResult = &mocksdb.InsertOneResultHelper{}

	var inserted models.Complaint
	conn.(*mocksdb.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(models.Complaint)
		}).
		Return(insertResult, nil)
	db.(*mocksdb.DatabaseHelper).On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB: databases.NewComplaintDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateComplaintHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	assert.Equal(t, suppliedAt, inserted.SubmittedAt)
}

func TestComplaint_CreateFillsMissingSubmittedAt(t *testing.T) {
	body, _ := json.Marshal(models.Complaint{
		UserID:       "user_123",
		FirstName:    "Dana",
		LastName:     "Whitfield",
		Subject:      "Case worker misconduct",
		Description:  "Repeated unannounced visits without cause.",
		ConsentGiven: true,
	})
	req, err := http.NewRequest("POST", "/api/submit-to-sanity", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var insertResult databases.InsertOneResultHelper

	db = &mocksdb.DatabaseHelper{}
	conn = &mocksdb.CollectionHelper{}
	insertResult = &mocksdb.InsertOneResultHelper{}

	var inserted models.Complaint
	conn.(*mocksdb.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(models.Complaint)
		}).
		Return(insertResult, nil)
	db.(*mocksdb.DatabaseHelper).On("Collection", "complaints").Return(conn)

	c := handlers.Complaint{
		DB: databases.NewComplaintDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.CreateComplaintHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	assert.NotZero(t, inserted.SubmittedAt)
}
