package models

// HealthCheckResponse returns the health check response, yay or nay
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
