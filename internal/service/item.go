package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/availability"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// ItemService manages the item catalog.
type ItemService struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewItemService(store repository.Store, logger *slog.Logger, now func() time.Time) *ItemService {
	return &ItemService{store: store, logger: logger, now: clock(now)}
}

// Create lists a new item for ownerID. A referenced request must exist.
func (s *ItemService) Create(ctx context.Context, ownerID int64, in model.NewItem) (*model.Item, error) {
	// === VALIDATION ===
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperror.ValidationFailed("name", "item name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, apperror.ValidationFailed("description", "item description is required")
	}

	item := &model.Item{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		RequestID:   in.RequestID,
	}

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, ownerID); err != nil {
			return err
		}
		if in.RequestID != nil {
			if _, err := tx.Requests().GetByID(ctx, *in.RequestID); err != nil {
				return err
			}
		}
		return tx.Items().Create(ctx, item)
	})
	if err != nil {
		return nil, fail(s.logger, "item", "create item", err)
	}

	s.logger.Info("item created",
		slog.Int64("id", item.ID),
		slog.Int64("owner_id", ownerID),
	)
	return item, nil
}

// Get returns an item with its comments. The owner also sees the last and
// next approved bookings.
func (s *ItemService) Get(ctx context.Context, itemID, viewerID int64) (*model.ItemView, error) {
	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, fail(s.logger, "item", "get item", err)
	}

	views, err := s.views(ctx, []model.Item{*item}, item.OwnerID == viewerID)
	if err != nil {
		return nil, fail(s.logger, "item", "get item", err)
	}
	return &views[0], nil
}

// ListForOwner returns the owner's items ordered by id, each with its
// booking window and comments.
func (s *ItemService) ListForOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.ItemView, error) {
	items, err := s.store.Items().ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, fail(s.logger, "item", "list items", err)
	}

	views, err := s.views(ctx, items, true)
	if err != nil {
		return nil, fail(s.logger, "item", "list items", err)
	}
	return views, nil
}

// views loads comments and, when withBookings is set, the last/next
// booking of every item in two queries.
func (s *ItemService) views(ctx context.Context, items []model.Item, withBookings bool) ([]model.ItemView, error) {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	comments, err := s.store.Comments().ListByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byItem := make(map[int64][]model.CommentView)
	for _, c := range comments {
		byItem[c.ItemID] = append(byItem[c.ItemID], c)
	}

	var windows map[int64]availability.Window
	if withBookings {
		approved, err := s.store.Bookings().ListApproved(ctx, ids)
		if err != nil {
			return nil, err
		}
		windows = availability.BatchLastAndNext(approved, s.now())
	}

	views := make([]model.ItemView, len(items))
	for i, it := range items {
		v := model.ItemView{Item: it, Comments: byItem[it.ID]}
		if v.Comments == nil {
			v.Comments = []model.CommentView{}
		}
		if w, ok := windows[it.ID]; ok {
			v.LastBooking = w.Last
			v.NextBooking = w.Next
		}
		views[i] = v
	}
	return views, nil
}

// Update applies a partial update. Only the owner may change an item.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, patch model.ItemPatch) (*model.Item, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperror.ValidationFailed("name", "item name must not be blank")
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, apperror.ValidationFailed("description", "item description must not be blank")
	}

	var item *model.Item
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, ownerID); err != nil {
			return err
		}
		var err error
		if item, err = tx.Items().GetByID(ctx, itemID); err != nil {
			return err
		}
		if item.OwnerID != ownerID {
			return apperror.AccessDenied("only the owner can update an item")
		}
		patch.Apply(item)
		return tx.Items().Update(ctx, item)
	})
	if err != nil {
		return nil, fail(s.logger, "item", "update item", err)
	}

	s.logger.Info("item updated", slog.Int64("id", itemID))
	return item, nil
}

// Delete removes an item. Only the owner may delete it.
func (s *ItemService) Delete(ctx context.Context, ownerID, itemID int64) error {
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, ownerID); err != nil {
			return err
		}
		item, err := tx.Items().GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item.OwnerID != ownerID {
			return apperror.AccessDenied("only the owner can delete an item")
		}
		return tx.Items().Delete(ctx, itemID)
	})
	if err != nil {
		return fail(s.logger, "item", "delete item", err)
	}

	s.logger.Info("item deleted", slog.Int64("id", itemID))
	return nil
}

// Search finds available items whose name or description contains text.
// Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, text string, page model.Page) ([]model.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []model.Item{}, nil
	}
	items, err := s.store.Items().Search(ctx, text, page)
	if err != nil {
		return nil, fail(s.logger, "item", "search items", err)
	}
	return items, nil
}
