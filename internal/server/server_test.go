package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/shareit/internal/events"
)

// These tests drive the whole stack through the router: chi, middleware,
// handlers, services and an in-memory SQLite store.

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

var base = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

type api struct {
	t     *testing.T
	h     http.Handler
	clock *testClock
}

func newAPI(t *testing.T) *api {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := &testClock{t: base}

	srv, err := New(Config{DBPath: ":memory:"}, logger, events.NewLogPublisher(logger), clk.Now)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	return &api{t: t, h: srv.Handler(), clock: clk}
}

// do sends a request as sharer (0 means no header) and returns the recorder.
func (a *api) do(method, path string, sharer int64, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if sharer != 0 {
		req.Header.Set("X-Sharer-User-Id", strconv.FormatInt(sharer, 10))
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

type idOnly struct {
	ID int64 `json:"id"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (a *api) createUser(name string) int64 {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/users", 0, map[string]string{"name": name, "email": name + "@example.com"})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[idOnly](a.t, rec).ID
}

func (a *api) createItem(owner int64, name string) int64 {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/items", owner, map[string]any{
		"name": name, "description": name + " for rent", "available": true,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[idOnly](a.t, rec).ID
}

func (a *api) createBooking(booker, item int64, start, end time.Time) int64 {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/bookings", booker, map[string]any{
		"itemId": item, "start": start, "end": end,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[idOnly](a.t, rec).ID
}

func TestHealthz(t *testing.T) {
	a := newAPI(t)
	rec := a.do(http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUsers(t *testing.T) {
	a := newAPI(t)
	id := a.createUser("alice")

	rec := a.do(http.MethodPost, "/users", 0, map[string]string{"name": "other", "email": "alice@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/users", 0, map[string]string{"name": "bad", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPatch, "/users/"+strconv.FormatInt(id, 10), 0, map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":`+strconv.FormatInt(id, 10)+`,"name":"Alice","email":"alice@example.com"}`, rec.Body.String())

	rec = a.do(http.MethodDelete, "/users/"+strconv.FormatInt(id, 10), 0, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/users/"+strconv.FormatInt(id, 10), 0, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found with id "+strconv.FormatInt(id, 10), decode[errorBody](t, rec).Error)
}

func TestSharerHeaderRequired(t *testing.T) {
	a := newAPI(t)
	for _, path := range []string{"/items", "/bookings", "/requests"} {
		rec := a.do(http.MethodGet, path, 0, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestItemCreate_Validation(t *testing.T) {
	a := newAPI(t)
	owner := a.createUser("owner")

	rec := a.do(http.MethodPost, "/items", owner, map[string]any{"name": "  ", "description": "x", "available": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/items", owner, map[string]any{"name": "drill", "description": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/items", 999, map[string]any{"name": "drill", "description": "x", "available": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemSearch(t *testing.T) {
	a := newAPI(t)
	owner := a.createUser("owner")
	a.createItem(owner, "Drill")
	a.createItem(owner, "Saw")

	rec := a.do(http.MethodGet, "/items/search?text=dRiLl", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]idOnly](t, rec), 1)

	rec = a.do(http.MethodGet, "/items/search?text=", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(http.MethodGet, "/items/search", owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingLifecycle(t *testing.T) {
	a := newAPI(t)
	owner := a.createUser("owner")
	booker := a.createUser("booker")
	item := a.createItem(owner, "drill")

	start, end := base.Add(24*time.Hour), base.Add(48*time.Hour)
	bookingID := a.createBooking(booker, item, start, end)
	path := "/bookings/" + strconv.FormatInt(bookingID, 10)

	// The owner cannot book their own item.
	rec := a.do(http.MethodPost, "/bookings", owner, map[string]any{"itemId": item, "start": start, "end": end})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// end before start
	rec = a.do(http.MethodPost, "/bookings", booker, map[string]any{"itemId": item, "start": end, "end": start})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A stranger cannot see the booking.
	stranger := a.createUser("stranger")
	rec = a.do(http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, "/bookings/owner?state=WAITING", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]idOnly](t, rec), 1)

	// The booker cannot approve.
	rec = a.do(http.MethodPatch, path+"?approved=true", booker, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPatch, path+"?approved=true", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Status string `json:"status"`
		Booker idOnly `json:"booker"`
		Item   struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"item"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "APPROVED", view.Status)
	assert.Equal(t, booker, view.Booker.ID)
	assert.Equal(t, "drill", view.Item.Name)

	rec = a.do(http.MethodPatch, path+"?approved=false", owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status already approved", decode[errorBody](t, rec).Error)

	rec = a.do(http.MethodGet, "/bookings/owner?state=WAITING", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(http.MethodGet, "/bookings?state=FUTURE", booker, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]idOnly](t, rec), 1)

	rec = a.do(http.MethodGet, "/bookings?state=SOMETIMES", booker, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown state: SOMETIMES", decode[errorBody](t, rec).Error)

	rec = a.do(http.MethodGet, "/bookings?from=-1", booker, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemView_BookingsAndComments(t *testing.T) {
	a := newAPI(t)
	owner := a.createUser("owner")
	booker := a.createUser("booker")
	item := a.createItem(owner, "drill")
	itemPath := "/items/" + strconv.FormatInt(item, 10)

	bookingID := a.createBooking(booker, item, base.Add(time.Hour), base.Add(2*time.Hour))
	rec := a.do(http.MethodPatch, "/bookings/"+strconv.FormatInt(bookingID, 10)+"?approved=true", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Too early to comment.
	rec = a.do(http.MethodPost, itemPath+"/comment", booker, map[string]string{"text": "great"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, itemPath, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var before struct {
		LastBooking *idOnly `json:"lastBooking"`
		NextBooking *idOnly `json:"nextBooking"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&before))
	assert.Nil(t, before.LastBooking)
	require.NotNil(t, before.NextBooking)
	assert.Equal(t, bookingID, before.NextBooking.ID)

	a.clock.Set(base.Add(3 * time.Hour))

	rec = a.do(http.MethodPost, itemPath+"/comment", booker, map[string]string{"text": "great"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, itemPath, booker, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var after struct {
		LastBooking *idOnly `json:"lastBooking"`
		Comments    []struct {
			Text       string `json:"text"`
			AuthorName string `json:"authorName"`
		} `json:"comments"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&after))
	assert.Nil(t, after.LastBooking, "only the owner sees bookings")
	require.Len(t, after.Comments, 1)
	assert.Equal(t, "great", after.Comments[0].Text)
	assert.Equal(t, "booker", after.Comments[0].AuthorName)
}

func TestRequests(t *testing.T) {
	a := newAPI(t)
	alice := a.createUser("alice")
	bob := a.createUser("bob")

	rec := a.do(http.MethodPost, "/requests", alice, map[string]string{"description": "need a ladder"})
	require.Equal(t, http.StatusCreated, rec.Code)
	reqID := decode[idOnly](t, rec).ID

	rec = a.do(http.MethodPost, "/items", bob, map[string]any{
		"name": "ladder", "description": "tall", "available": true, "requestId": reqID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(http.MethodGet, "/requests/"+strconv.FormatInt(reqID, 10), bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Description string `json:"description"`
		Items       []struct {
			Name      string `json:"name"`
			RequestID int64  `json:"requestId"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "need a ladder", view.Description)
	require.Len(t, view.Items, 1)
	assert.Equal(t, reqID, view.Items[0].RequestID)

	rec = a.do(http.MethodGet, "/requests/all", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(http.MethodGet, "/requests/all?from=0&size=10", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]idOnly](t, rec), 1)

	rec = a.do(http.MethodGet, "/requests", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]idOnly](t, rec), 1)
}
