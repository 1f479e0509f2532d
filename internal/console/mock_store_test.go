package console

import (
	"context"
	"testing"

	"restaurant-console/internal/model"
	"restaurant-console/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
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

func sampleRestaurant() *model.Restaurant {
	return &model.Restaurant{
		ID:           "owner-1",
		Name:         "Saffron House",
		PhoneNumber:  "9876543210",
		OpeningHours: "10:00-22:00",
		GSTIN:        "29ABCDE1234F1Z5",
		FSSAI:        "10012345678901",
		Rating:       4.2,
		Address: &model.Address{
			StreetAddress: "12 MG Road",
			City:          "Bengaluru",
			State:         "Karnataka",
			Pincode:       "560001",
		},
	}
}

func newTestConsole(t *testing.T) (*Console, *MockStore) {
	t.Helper()
	st := new(MockStore)
	t.Cleanup(func() { st.AssertExpectations(t) })
	return New(st, testSession, zerolog.Nop()), st
}

// loadedConsole returns a console whose restaurant and menu are loaded.
func loadedConsole(t *testing.T, items []model.MenuItem) (*Console, *MockStore) {
	t.Helper()
	c, st := newTestConsole(t)
	st.On("GetRestaurant", mock.Anything, testSession).Return(sampleRestaurant(), nil).Once()
	st.On("GetMenu", mock.Anything, testSession).Return(items, nil).Once()
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return c, st
}
