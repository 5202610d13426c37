package config

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an idle intake session survives before the
// pruner discards it
const DefaultSessionTTL = 2 * time.Hour

// Config holds the project config values
type Config struct {
	URL              string
	DatabaseName     string
	BaseURL          string
	Port             string
	CloudinaryURL    string
	CloudinaryFolder string
	SendgridAPIKey   string
	AdminEmail       string
	IdentitySecret   string
	SessionTTL       time.Duration
	Env              string
}

// New sets up all config related services
func New() *Config {

	env := os.Getenv("ENV")

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:              os.Getenv("DB_URI"),
		DatabaseName:     os.Getenv("DB_NAME"),
		BaseURL:          os.Getenv("BASE_URL"),
		Port:             os.Getenv("PORT"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder: os.Getenv("CLOUDINARY_FOLDER"),
		SendgridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		IdentitySecret:   os.Getenv("IDENTITY_JWT_SECRET"),
		SessionTTL:       sessionTTL(),
		Env:              env,
	}

}

func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	default:
		return zap.NewExample(), nil
	}
}

func sessionTTL() time.Duration {
	ttl, err := time.ParseDuration(os.Getenv("INTAKE_SESSION_TTL"))
	if err != nil || ttl <= 0 {
		return DefaultSessionTTL
	}
	return ttl
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}
