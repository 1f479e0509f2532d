package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restaurant-console/internal/model"
	"restaurant-console/internal/session"

	"github.com/rs/zerolog"
)

const restaurantsPath = "/api/restaurants/"

var errEmptyResponse = errors.New("store returned an empty body")

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 512

// httpStore implements RemoteStore against the restaurants HTTP API.
type httpStore struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPStore creates a RemoteStore that calls the API rooted at baseURL.
// A nil client gets a default client with the given timeout.
func NewHTTPStore(baseURL string, client *http.Client, timeout time.Duration, logger zerolog.Logger) RemoteStore {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &httpStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger.With().Str("store", "http").Logger(),
	}
}

// GetRestaurant reads the restaurant owned by the session owner.
func (h *httpStore) GetRestaurant(ctx context.Context, s session.Session) (*model.Restaurant, error) {
	var r *model.Restaurant
	if err := h.do(ctx, s, "get restaurant", http.MethodGet, h.endpoint(s, false, ""), nil, &r); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("get restaurant: %w", ErrNotFound)
	}
	return r, nil
}

// GetMenu reads the menu items in store order.
func (h *httpStore) GetMenu(ctx context.Context, s session.Session) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := h.do(ctx, s, "get menu", http.MethodGet, h.endpoint(s, true, ""), nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return items, nil
}

// UpdateRestaurant sends the full restaurant and returns the stored representation.
func (h *httpStore) UpdateRestaurant(ctx context.Context, s session.Session, r model.Restaurant) (*model.Restaurant, error) {
	var updated *model.Restaurant
	if err := h.do(ctx, s, "update restaurant", http.MethodPut, h.endpoint(s, false, ""), r, &updated); err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("update restaurant: %w", errEmptyResponse)
	}
	return updated, nil
}

// DeleteRestaurant removes the restaurant.
func (h *httpStore) DeleteRestaurant(ctx context.Context, s session.Session) error {
	return h.do(ctx, s, "delete restaurant", http.MethodDelete, h.endpoint(s, false, ""), nil, nil)
}

// CreateMenuItem creates item and returns it with its assigned id.
func (h *httpStore) CreateMenuItem(ctx context.Context, s session.Session, item model.MenuItem) (*model.MenuItem, error) {
	var created *model.MenuItem
	if err := h.do(ctx, s, "create menu item", http.MethodPost, h.endpoint(s, true, ""), item, &created); err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("create menu item: %w", errEmptyResponse)
	}
	return created, nil
}

// UpdateMenuItem sends the full item and returns the stored representation.
func (h *httpStore) UpdateMenuItem(ctx context.Context, s session.Session, itemID string, item model.MenuItem) (*model.MenuItem, error) {
	var updated *model.MenuItem
	if err := h.do(ctx, s, "update menu item", http.MethodPut, h.endpoint(s, true, itemID), item, &updated); err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("update menu item: %w", errEmptyResponse)
	}
	return updated, nil
}

// DeleteMenuItem removes the item with the given id.
func (h *httpStore) DeleteMenuItem(ctx context.Context, s session.Session, itemID string) error {
	return h.do(ctx, s, "delete menu item", http.MethodDelete, h.endpoint(s, true, itemID), nil, nil)
}

// endpoint builds /api/restaurants/?id=<owner>[&menu=true][&menuItemId=<id>].
func (h *httpStore) endpoint(s session.Session, menu bool, itemID string) string {
	q := url.Values{}
	q.Set("id", s.OwnerID)
	if menu {
		q.Set("menu", "true")
	}
	if itemID != "" {
		q.Set("menuItemId", itemID)
	}
	return h.baseURL + restaurantsPath + "?" + q.Encode()
}

func (h *httpStore) do(ctx context.Context, s session.Session, op, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", s.AuthorizationHeader())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error().Err(err).Str("op", op).Msg("store request failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	h.logger.Debug().
		Str("op", op).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("store request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", ErrNotFound, statusErr)
		}
		return statusErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}
