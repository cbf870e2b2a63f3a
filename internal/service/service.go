// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services receive a repository.Store, never a *sqlite.DB, so the business
// rules know nothing about SQL. Every read-check-write sequence runs inside
// Store.Atomic: the check and the write see the same data.
//
// TIME:
// Booking rules depend on "now". Each service takes a now func so tests can
// pin the clock; nil means time.Now.
//
// ERRORS:
// Rule violations come back as *apperror.AppError and pass through
// untouched. Anything else is an infrastructure failure: it is logged here
// and wrapped with the service name.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/shareit/internal/apperror"
)

// clock returns now, defaulting to time.Now.
func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

// fail passes domain errors through and logs and wraps everything else.
func fail(logger *slog.Logger, component, op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	logger.Error("failed to "+op,
		slog.String("component", component),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("service/%s: %s: %w", component, op, err)
}
