package handler

import (
	"context"
	"testing"

	"restaurant-console/internal/console"
	"restaurant-console/internal/media"
	"restaurant-console/internal/model"
	"restaurant-console/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of store.RemoteStore.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetRestaurant(ctx context.Context, s session.Session) (*model.Restaurant, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockStore) GetMenu(ctx context.Context, s session.Session) ([]model.MenuItem, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockStore) UpdateRestaurant(ctx context.Context, s session.Session, r model.Restaurant) (*model.Restaurant, error) {
	args := m.Called(ctx, s, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockStore) DeleteRestaurant(ctx context.Context, s session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStore) CreateMenuItem(ctx context.Context, s session.Session, item model.MenuItem) (*model.MenuItem, error) {
	args := m.Called(ctx, s, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockStore) UpdateMenuItem(ctx context.Context, s session.Session, itemID string, item model.MenuItem) (*model.MenuItem, error) {
	args := m.Called(ctx, s, itemID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockStore) DeleteMenuItem(ctx context.Context, s session.Session, itemID string) error {
	args := m.Called(ctx, s, itemID)
	return args.Error(0)
}

var testSession = session.Session{OwnerID: "owner-1", Token: "token-1"}

// mockLinker prefixes image references so tests can see they were resolved.
type mockLinker struct{}

func (mockLinker) Link(_ context.Context, ref string) (string, error) {
	return "https://img.example/" + ref, nil
}

var _ media.Linker = mockLinker{}

// loadedConsole returns a console with a loaded restaurant and menu.
func loadedConsole(t *testing.T, items []model.MenuItem) (*console.Console, *MockStore) {
	t.Helper()
	st := new(MockStore)
	t.Cleanup(func() { st.AssertExpectations(t) })

	st.On("GetRestaurant", mock.Anything, testSession).
		Return(&model.Restaurant{ID: "owner-1", Name: "Saffron House", Rating: 4.2}, nil).Once()
	st.On("GetMenu", mock.Anything, testSession).Return(items, nil).Once()

	c := console.New(st, testSession, zerolog.Nop())
	require.NoError(t, c.Load(context.Background()))
	return c, st
}
