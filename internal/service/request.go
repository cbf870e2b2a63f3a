package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// RequestService manages the request board.
type RequestService struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewRequestService(store repository.Store, logger *slog.Logger, now func() time.Time) *RequestService {
	return &RequestService{store: store, logger: logger, now: clock(now)}
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (*model.Request, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperror.ValidationFailed("description", "request description is required")
	}

	req := &model.Request{
		Description: description,
		RequesterID: requesterID,
		Created:     s.now(),
	}
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, requesterID); err != nil {
			return err
		}
		return tx.Requests().Create(ctx, req)
	})
	if err != nil {
		return nil, fail(s.logger, "request", "create request", err)
	}

	s.logger.Info("request created",
		slog.Int64("id", req.ID),
		slog.Int64("requester_id", requesterID),
	)
	return req, nil
}

// GetByID returns any request with its items. The acting user must exist.
func (s *RequestService) GetByID(ctx context.Context, requestID, userID int64) (*model.RequestView, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, fail(s.logger, "request", "get request", err)
	}
	req, err := s.store.Requests().GetByID(ctx, requestID)
	if err != nil {
		return nil, fail(s.logger, "request", "get request", err)
	}

	views, err := s.withItems(ctx, []model.Request{*req})
	if err != nil {
		return nil, fail(s.logger, "request", "get request", err)
	}
	return &views[0], nil
}

// ListOwn returns userID's requests, newest first.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]model.RequestView, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, fail(s.logger, "request", "list requests", err)
	}
	reqs, err := s.store.Requests().ListByRequester(ctx, userID)
	if err != nil {
		return nil, fail(s.logger, "request", "list requests", err)
	}

	views, err := s.withItems(ctx, reqs)
	if err != nil {
		return nil, fail(s.logger, "request", "list requests", err)
	}
	return views, nil
}

// ListOthers returns everybody else's requests, newest first.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, page model.Page) ([]model.RequestView, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, fail(s.logger, "request", "list requests", err)
	}
	reqs, err := s.store.Requests().ListExcept(ctx, userID, page)
	if err != nil {
		return nil, fail(s.logger, "request", "list requests", err)
	}

	views, err := s.withItems(ctx, reqs)
	if err != nil {
		return nil, fail(s.logger, "request", "list requests", err)
	}
	return views, nil
}

func (s *RequestService) withItems(ctx context.Context, reqs []model.Request) ([]model.RequestView, error) {
	ids := make([]int64, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}

	items, err := s.store.Items().ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[int64][]model.Item)
	for _, it := range items {
		byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
	}

	views := make([]model.RequestView, len(reqs))
	for i, r := range reqs {
		views[i] = model.RequestView{Request: r, Items: byRequest[r.ID]}
		if views[i].Items == nil {
			views[i].Items = []model.Item{}
		}
	}
	return views, nil
}
