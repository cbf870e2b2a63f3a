package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

var now = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

// matches is the in-memory form of the predicate Filter sends to the store.
func matches(b model.Booking, state model.State, now time.Time) bool {
	switch state {
	case model.StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case model.StatePast:
		return b.End.Before(now)
	case model.StateFuture:
		return b.Start.After(now)
	case model.StateWaiting:
		return b.Status == model.StatusWaiting
	case model.StateRejected:
		return b.Status == model.StatusRejected
	default:
		return true
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		state model.State
		check func(t *testing.T, f repository.BookingFilter)
	}{
		{model.StateAll, func(t *testing.T, f repository.BookingFilter) {
			assert.Nil(t, f.Status)
			assert.Nil(t, f.Covering)
			assert.Nil(t, f.StartAfter)
			assert.Nil(t, f.EndBefore)
		}},
		{model.StateCurrent, func(t *testing.T, f repository.BookingFilter) {
			require.NotNil(t, f.Covering)
			assert.True(t, f.Covering.Equal(now))
		}},
		{model.StatePast, func(t *testing.T, f repository.BookingFilter) {
			require.NotNil(t, f.EndBefore)
			assert.True(t, f.EndBefore.Equal(now))
		}},
		{model.StateFuture, func(t *testing.T, f repository.BookingFilter) {
			require.NotNil(t, f.StartAfter)
			assert.True(t, f.StartAfter.Equal(now))
		}},
		{model.StateWaiting, func(t *testing.T, f repository.BookingFilter) {
			require.NotNil(t, f.Status)
			assert.Equal(t, model.StatusWaiting, *f.Status)
		}},
		{model.StateRejected, func(t *testing.T, f repository.BookingFilter) {
			require.NotNil(t, f.Status)
			assert.Equal(t, model.StatusRejected, *f.Status)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			page := model.Page{From: 2, Size: 2}
			f := Filter(repository.RoleOwner, 7, tt.state, now, page)
			assert.Equal(t, int64(7), f.SubjectID)
			assert.Equal(t, repository.RoleOwner, f.Role)
			assert.Equal(t, page, f.Page)
			tt.check(t, f)
		})
	}
}

func TestMatches_TimeStatesAtThreeOffsets(t *testing.T) {
	past := model.Booking{ID: 1, Start: now.Add(-3 * time.Hour), End: now.Add(-2 * time.Hour)}
	current := model.Booking{ID: 2, Start: now.Add(-time.Hour), End: now.Add(time.Hour)}
	future := model.Booking{ID: 3, Start: now.Add(2 * time.Hour), End: now.Add(3 * time.Hour)}
	all := []model.Booking{past, current, future}

	pick := func(state model.State) []int64 {
		var ids []int64
		for _, b := range all {
			if matches(b, state, now) {
				ids = append(ids, b.ID)
			}
		}
		return ids
	}

	assert.Equal(t, []int64{2}, pick(model.StateCurrent))
	assert.Equal(t, []int64{1}, pick(model.StatePast))
	assert.Equal(t, []int64{3}, pick(model.StateFuture))
	assert.Equal(t, []int64{1, 2, 3}, pick(model.StateAll))
}

func TestMatches_Boundaries(t *testing.T) {
	b := model.Booking{Start: now, End: now.Add(time.Hour)}
	assert.True(t, matches(b, model.StateCurrent, now), "start == now is current")
	assert.False(t, matches(b, model.StateFuture, now), "start == now is not future")

	b = model.Booking{Start: now.Add(-time.Hour), End: now}
	assert.True(t, matches(b, model.StateCurrent, now), "end == now is current")
	assert.False(t, matches(b, model.StatePast, now), "end == now is not past")
}

func TestMatches_Status(t *testing.T) {
	w := model.Booking{Status: model.StatusWaiting}
	r := model.Booking{Status: model.StatusRejected}
	a := model.Booking{Status: model.StatusApproved}

	assert.True(t, matches(w, model.StateWaiting, now))
	assert.False(t, matches(r, model.StateWaiting, now))
	assert.True(t, matches(r, model.StateRejected, now))
	assert.False(t, matches(a, model.StateRejected, now))
}

func short(id, itemID int64, startOffset time.Duration) model.BookingShort {
	start := now.Add(startOffset)
	return model.BookingShort{ID: id, ItemID: itemID, BookerID: 100, Start: start, End: start.Add(time.Hour)}
}

func TestLastAndNext(t *testing.T) {
	bookings := []model.BookingShort{
		short(1, 1, -48*time.Hour),
		short(2, 1, -2*time.Hour),
		short(3, 1, 5*time.Hour),
		short(4, 1, 2*time.Hour),
	}

	w := LastAndNext(bookings, now)
	require.NotNil(t, w.Last)
	require.NotNil(t, w.Next)
	assert.Equal(t, int64(2), w.Last.ID)
	assert.Equal(t, int64(4), w.Next.ID)
}

func TestLastAndNext_StartAtNowIsLast(t *testing.T) {
	w := LastAndNext([]model.BookingShort{short(1, 1, 0)}, now)
	require.NotNil(t, w.Last)
	assert.Equal(t, int64(1), w.Last.ID)
	assert.Nil(t, w.Next)
}

func TestLastAndNext_TiesKeepFirst(t *testing.T) {
	bookings := []model.BookingShort{
		short(1, 1, -time.Hour),
		short(2, 1, -time.Hour),
		short(3, 1, time.Hour),
		short(4, 1, time.Hour),
	}

	w := LastAndNext(bookings, now)
	assert.Equal(t, int64(1), w.Last.ID)
	assert.Equal(t, int64(3), w.Next.ID)
}

func TestLastAndNext_Empty(t *testing.T) {
	w := LastAndNext(nil, now)
	assert.Nil(t, w.Last)
	assert.Nil(t, w.Next)
}

func TestBatchLastAndNext_EqualsPerItem(t *testing.T) {
	bookings := []model.BookingShort{
		short(1, 10, -time.Hour),
		short(2, 20, 3*time.Hour),
		short(3, 10, 2*time.Hour),
		short(4, 20, -5*time.Hour),
		short(5, 10, -30*time.Minute),
		short(6, 30, 4*time.Hour),
	}

	batch := BatchLastAndNext(bookings, now)

	for _, itemID := range []int64{10, 20, 30} {
		var mine []model.BookingShort
		for _, b := range bookings {
			if b.ItemID == itemID {
				mine = append(mine, b)
			}
		}
		single := LastAndNext(mine, now)
		assert.Equal(t, single, batch[itemID], "item %d", itemID)
	}

	_, ok := batch[40]
	assert.False(t, ok)
}

func TestParseState(t *testing.T) {
	s, err := ParseState("")
	require.NoError(t, err)
	assert.Equal(t, model.StateAll, s)

	s, err = ParseState("FUTURE")
	require.NoError(t, err)
	assert.Equal(t, model.StateFuture, s)

	_, err = ParseState("UNSUPPORTED_STATUS")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrUnknownState)
	assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", err.Error())
}
