package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant-console/internal/model"
	"restaurant-console/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSession = session.Session{OwnerID: "owner-1", Token: "tok"}

// recordedRequest captures what the fake store received.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Auth   string
	Body   []byte
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Auth = r.Header.Get("Authorization")
		rec.Query = map[string]string{}
		for k := range r.URL.Query() {
			rec.Query[k] = r.URL.Query().Get(k)
		}
		if r.Body != nil {
			var buf json.RawMessage
			_ = json.NewDecoder(r.Body).Decode(&buf)
			rec.Body = buf
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestHTTPStore_GetRestaurant(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"id":"owner-1","name":"Spice Route","rating":4.2,"address":{"city":"Pune"}}`)
	s := NewHTTPStore(srv.URL+"/", nil, 5*time.Second, zerolog.Nop())

	r, err := s.GetRestaurant(context.Background(), testSession)

	require.NoError(t, err)
	assert.Equal(t, "Spice Route", r.Name)
	require.NotNil(t, r.Address)
	assert.Equal(t, "Pune", r.Address.City)

	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/api/restaurants/", rec.Path)
	assert.Equal(t, map[string]string{"id": "owner-1"}, rec.Query)
	assert.Equal(t, "Bearer tok", rec.Auth)
}

func TestHTTPStore_GetRestaurant_Coordinates(t *testing.T) {
	tests := []struct {
		name      string
		address   string
		latitude  model.Coordinate
		longitude model.Coordinate
	}{
		{"Numbers", `{"city":"Pune","latitude":18.52,"longitude":73.85}`, "18.52", "73.85"},
		{"Strings", `{"city":"Pune","latitude":"18.52","longitude":"73.85"}`, "18.52", "73.85"},
		{"Null and missing", `{"city":"Pune","latitude":null}`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, `{"id":"owner-1","name":"Spice Route","address":`+tt.address+`}`)
			s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

			r, err := s.GetRestaurant(context.Background(), testSession)

			require.NoError(t, err)
			require.NotNil(t, r.Address)
			assert.Equal(t, tt.latitude, r.Address.Latitude)
			assert.Equal(t, tt.longitude, r.Address.Longitude)
		})
	}
}

func TestHTTPStore_GetRestaurant_NullBody(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `null`)
	s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

	_, err := s.GetRestaurant(context.Background(), testSession)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStore_StatusErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		expectNotErr bool
	}{
		{name: "Not found", status: http.StatusNotFound, expectNotErr: true},
		{name: "Server error", status: http.StatusInternalServerError},
		{name: "Unauthorised", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, `{"error":"nope"}`)
			s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

			err := s.DeleteRestaurant(context.Background(), testSession)

			require.Error(t, err)
			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, "delete restaurant", statusErr.Op)
			assert.Equal(t, tt.expectNotErr, errors.Is(err, ErrNotFound))
		})
	}
}

func TestHTTPStore_MenuEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("GetMenu", func(t *testing.T) {
		srv, rec := newTestServer(t, http.StatusOK, `[{"id":"1","name":"Soup","price":5}]`)
		s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

		items, err := s.GetMenu(ctx, testSession)

		require.NoError(t, err)
		assert.Equal(t, []model.MenuItem{{ID: "1", Name: "Soup", Price: 5}}, items)
		assert.Equal(t, map[string]string{"id": "owner-1", "menu": "true"}, rec.Query)
	})

	t.Run("GetMenu null is empty", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusOK, `null`)
		s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

		items, err := s.GetMenu(ctx, testSession)

		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})

	t.Run("CreateMenuItem", func(t *testing.T) {
		srv, rec := newTestServer(t, http.StatusCreated, `{"id":"9","name":"Tea","description":"Hot","price":2}`)
		s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

		created, err := s.CreateMenuItem(ctx, testSession, model.MenuItem{Name: "Tea", Description: "Hot", Price: 2})

		require.NoError(t, err)
		assert.Equal(t, "9", created.ID)
		assert.Equal(t, http.MethodPost, rec.Method)
		assert.JSONEq(t, `{"name":"Tea","description":"Hot","price":2,"ratings":0,"discounts":0,"imageLink":""}`, string(rec.Body))
	})

	t.Run("UpdateMenuItem", func(t *testing.T) {
		srv, rec := newTestServer(t, http.StatusOK, `{"id":"1","name":"Soup","price":6}`)
		s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

		updated, err := s.UpdateMenuItem(ctx, testSession, "1", model.MenuItem{ID: "1", Name: "Soup", Price: 6})

		require.NoError(t, err)
		assert.Equal(t, 6.0, updated.Price)
		assert.Equal(t, http.MethodPut, rec.Method)
		assert.Equal(t, map[string]string{"id": "owner-1", "menu": "true", "menuItemId": "1"}, rec.Query)
	})

	t.Run("UpdateMenuItem empty body", func(t *testing.T) {
		srv, _ := newTestServer(t, http.StatusOK, ``)
		s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

		_, err := s.UpdateMenuItem(ctx, testSession, "1", model.MenuItem{ID: "1"})

		assert.ErrorIs(t, err, errEmptyResponse)
	})

	t.Run("DeleteMenuItem", func(t *testing.T) {
		srv, rec := newTestServer(t, http.StatusNoContent, ``)
		s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

		err := s.DeleteMenuItem(ctx, testSession, "1")

		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, rec.Method)
		assert.Equal(t, "1", rec.Query["menuItemId"])
	})
}

func TestHTTPStore_UpdateRestaurant(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"id":"owner-1","name":"Server Name"}`)
	s := NewHTTPStore(srv.URL, nil, 5*time.Second, zerolog.Nop())

	updated, err := s.UpdateRestaurant(context.Background(), testSession, model.Restaurant{Name: "Local Name"})

	require.NoError(t, err)
	assert.Equal(t, "Server Name", updated.Name)
	assert.Equal(t, http.MethodPut, rec.Method)
	assert.Contains(t, string(rec.Body), `"Local Name"`)
}

func TestHTTPStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewHTTPStore(url, nil, time.Second, zerolog.Nop())

	_, err := s.GetMenu(context.Background(), testSession)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "get menu")
}
