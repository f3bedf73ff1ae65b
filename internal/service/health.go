package service

import (
	"time"

	"portfolio-api/internal/result"
)

type HealthStatus struct {
	Status  string  `json:"status"`
	Uptime  float64 `json:"uptime"`
	Message string  `json:"message"`
}

type HealthService struct {
	started time.Time
	now     func() time.Time
}

func NewHealthService(started time.Time) *HealthService {
	return &HealthService{started: started, now: time.Now}
}

// Check reports process uptime in seconds.
func (s *HealthService) Check() result.Result {
	return result.Ok(HealthStatus{
		Status:  "healthy",
		Uptime:  s.now().Sub(s.started).Seconds(),
		Message: "Server is healthy",
	}, "Health check successful")
}
