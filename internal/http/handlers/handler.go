package handlers

import (
	"context"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"
	"flightsurety/internal/repositories"
	"flightsurety/internal/services"
)

// EventLister reads the event journal.
type EventLister interface {
	List(ctx context.Context, f repositories.JournalFilter) ([]models.Event, error)
}

// Handler serves the engine over HTTP.
type Handler struct {
	Engine      *services.Surety
	Journal     EventLister
	JWTSecret   []byte
	Credentials map[domain.Principal]string
}
