package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
)

func TestRequestCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann := e.user(t, "ann")

	req, err := e.requests.Create(ctx, ann.ID, "need a ladder")
	require.NoError(t, err)
	assert.NotZero(t, req.ID)
	assert.True(t, req.Created.Equal(e.clock.Now()))

	_, err = e.requests.Create(ctx, 999, "need a ladder")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = e.requests.Create(ctx, ann.ID, "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestRequestViews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ann := e.user(t, "ann")
	bob := e.user(t, "bob")

	older, err := e.requests.Create(ctx, ann.ID, "need a ladder")
	require.NoError(t, err)
	e.clock.Set(e.clock.Now().Add(time.Hour))
	newer, err := e.requests.Create(ctx, ann.ID, "need a tent")
	require.NoError(t, err)
	e.clock.Set(e.clock.Now().Add(time.Hour))
	bobs, err := e.requests.Create(ctx, bob.ID, "need a kayak")
	require.NoError(t, err)

	ladder, err := e.items.Create(ctx, bob.ID, model.NewItem{
		Name: "Ladder", Description: "3m", Available: true, RequestID: &older.ID,
	})
	require.NoError(t, err)

	view, err := e.requests.GetByID(ctx, older.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, ladder.ID, view.Items[0].ID)

	own, err := e.requests.ListOwn(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, newer.ID, own[0].ID)
	assert.Equal(t, older.ID, own[1].ID)
	assert.NotNil(t, own[0].Items)
	assert.Empty(t, own[0].Items)

	others, err := e.requests.ListOthers(ctx, ann.ID, model.Page{})
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, bobs.ID, others[0].ID)

	_, err = e.requests.GetByID(ctx, older.ID, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = e.requests.GetByID(ctx, 999, ann.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = e.requests.ListOwn(ctx, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
