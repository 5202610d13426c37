package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/parentalrights/complaint-portal-api/api"
	"github.com/parentalrights/complaint-portal-api/api/scheduler"
	"github.com/parentalrights/complaint-portal-api/config"
	"github.com/parentalrights/complaint-portal-api/databases"
	"github.com/parentalrights/complaint-portal-api/intake"
	"github.com/parentalrights/complaint-portal-api/mailer"
	"github.com/parentalrights/complaint-portal-api/models"
	"github.com/parentalrights/complaint-portal-api/storage"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler

	dbHelper databases.DatabaseHelper
	uploads  storage.Uploader
	mail     mailer.Mailer
	sessions *intake.Store
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	v := api.IdentityVerifier{Secret: a.Config.IdentitySecret}
	v.SetupGoGuardian()

	r := mux.NewRouter()

	feed := NewFeedHub()
	upload := Upload{Store: a.uploads, ADB: databases.NewAssetDatabase(a.dbHelper)}
	complaint := Complaint{DB: databases.NewComplaintDatabase(a.dbHelper), Mail: a.mail, Feed: feed}
	post := Post{DB: databases.NewPostDatabase(a.dbHelper), Feed: feed}

	// the in-process wizard shares the same upload and create paths the HTTP
	// endpoints use
	pipeline := intake.NewPipeline(upload, complaint)
	wizard := Intake{Store: a.sessions, Wizard: intake.NewWizard(a.sessions, pipeline)}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// community feed websocket
	r.HandleFunc("/ws/feed", feed.ServeWS)

	requestTimeout := api.TimeoutMiddleware(30 * time.Second)

	// submission endpoints, path-compatible with the previous portal. The
	// handlers answer 405 themselves so non-POST methods reach them.
	r.Handle("/api/upload", requestTimeout(api.Middleware(http.HandlerFunc(upload.UploadHandler))))
	r.Handle("/api/submit-to-sanity", requestTimeout(api.Middleware(http.HandlerFunc(complaint.CreateComplaintHandler))))

	// the websocket route stays outside the timeout wrapper; feed
	// connections are long-lived
	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(requestTimeout)

	apiCreate.Handle("/complaints", api.Middleware(http.HandlerFunc(complaint.CreateComplaintHandler))).Methods("POST")
	apiCreate.Handle("/complaint/{complaint_id}", api.Middleware(http.HandlerFunc(complaint.ComplaintByIDHandler))).Methods("GET")
	apiCreate.Handle("/complaints/user/{user_id}", api.Middleware(http.HandlerFunc(complaint.ComplaintsByUserIDHandler))).Methods("GET")

	apiCreate.Handle("/intake", api.Middleware(http.HandlerFunc(wizard.OpenIntakeHandler))).Methods("POST")
	apiCreate.Handle("/intake/{session_id}", api.Middleware(http.HandlerFunc(wizard.GetIntakeHandler))).Methods("GET")
	apiCreate.Handle("/intake/{session_id}", api.Middleware(http.HandlerFunc(wizard.UpdateIntakeHandler))).Methods("PATCH")
	apiCreate.Handle("/intake/{session_id}/next", api.Middleware(http.HandlerFunc(wizard.NextIntakeHandler))).Methods("POST")
	apiCreate.Handle("/intake/{session_id}/back", api.Middleware(http.HandlerFunc(wizard.BackIntakeHandler))).Methods("POST")
	apiCreate.Handle("/intake/{session_id}/submit", api.Middleware(http.HandlerFunc(wizard.SubmitIntakeHandler))).Methods("POST")

	apiCreate.Handle("/post", api.Middleware(http.HandlerFunc(post.CreatePostHandler))).Methods("POST")
	apiCreate.Handle("/posts", api.Middleware(http.HandlerFunc(post.PostsHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("complaint-portal-api has connected to the database")

	a.uploads, err = storage.NewCloudinaryUploader(a.Config.CloudinaryURL, a.Config.CloudinaryFolder)
	if err != nil {
		zap.S().With(err).Error("failed to create cloudinary uploader")
		return err
	}

	if a.Config.SendgridAPIKey != "" {
		a.mail = mailer.NewSendgridMailer(a.Config.SendgridAPIKey)
	} else {
		zap.S().Warn("SENDGRID_API_KEY is not set, email delivery disabled")
		a.mail = mailer.Noop{}
	}

	a.sessions = intake.NewStore()

	a.Scheduler = scheduler.NewScheduler(
		a.sessions,
		databases.NewComplaintDatabase(a.dbHelper),
		a.mail,
		a.Config.AdminEmail,
		a.Config.SessionTTL,
	)

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
