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

// CommentService guards who may comment on an item.
type CommentService struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewCommentService(store repository.Store, logger *slog.Logger, now func() time.Time) *CommentService {
	return &CommentService{store: store, logger: logger, now: clock(now)}
}

// Create adds a comment. The author must have an approved booking of the
// item that has already ended.
func (s *CommentService) Create(ctx context.Context, authorID, itemID int64, text string) (*model.CommentView, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}

	now := s.now()
	var view model.CommentView
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		author, err := tx.Users().GetByID(ctx, authorID)
		if err != nil {
			return err
		}
		if _, err := tx.Items().GetByID(ctx, itemID); err != nil {
			return err
		}

		done, err := tx.Bookings().HasCompleted(ctx, authorID, itemID, now)
		if err != nil {
			return err
		}
		if !done {
			return apperror.AccessDenied("review without booking")
		}

		c := &model.Comment{ItemID: itemID, AuthorID: authorID, Text: text, Created: now}
		if err := tx.Comments().Create(ctx, c); err != nil {
			return err
		}
		view = model.CommentView{
			ID:         c.ID,
			ItemID:     itemID,
			Text:       c.Text,
			AuthorName: author.Name,
			Created:    c.Created,
		}
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, "comment", "create comment", err)
	}

	s.logger.Info("comment created",
		slog.Int64("id", view.ID),
		slog.Int64("item_id", itemID),
		slog.Int64("author_id", authorID),
	)
	return &view, nil
}
