package services

import (
	"context"
	"errors"
	"fmt"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"
	"flightsurety/internal/utils"

	"github.com/shopspring/decimal"
)

// EventSink receives events after the change they describe is committed.
// A sink failure never rolls the change back.
type EventSink interface {
	Publish(ctx context.Context, events []models.Event) error
}

// Transferrer releases withdrawn funds to a passenger outside the engine.
type Transferrer interface {
	Transfer(ctx context.Context, passenger domain.Principal, amount decimal.Decimal) error
}

// MultiSink fans events out to every sink and joins their errors.
type MultiSink []EventSink

func (m MultiSink) Publish(ctx context.Context, events []models.Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes each event to the process log.
type LogSink struct{}

func (LogSink) Publish(ctx context.Context, events []models.Event) error {
	reqID := domain.RequestIDFrom(ctx)
	for _, ev := range events {
		utils.LogEvent(reqID, "events", ev.Kind, fmt.Sprintf("seq=%d principal=%s", ev.Sequence, ev.Principal))
	}
	return nil
}

// LogTransferrer only records the transfer; used when no payment rail is
// configured.
type LogTransferrer struct{}

func (LogTransferrer) Transfer(ctx context.Context, passenger domain.Principal, amount decimal.Decimal) error {
	utils.LogEvent(domain.RequestIDFrom(ctx), "payout", "transfer", fmt.Sprintf("passenger=%s amount=%s", passenger, amount))
	return nil
}

// TransferFunc adapts a function to Transferrer.
type TransferFunc func(ctx context.Context, passenger domain.Principal, amount decimal.Decimal) error

func (f TransferFunc) Transfer(ctx context.Context, passenger domain.Principal, amount decimal.Decimal) error {
	return f(ctx, passenger, amount)
}
