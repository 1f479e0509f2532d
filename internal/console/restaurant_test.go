package console

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"restaurant-console/internal/model"
	"restaurant-console/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEditSession_Load(t *testing.T) {
	tests := []struct {
		name        string
		storeResult *model.Restaurant
		storeErr    error
		wantErr     error
		check       func(t *testing.T, st RestaurantState)
	}{
		{
			name:        "loaded",
			storeResult: sampleRestaurant(),
			check: func(t *testing.T, st RestaurantState) {
				require.NotNil(t, st.Restaurant)
				assert.Equal(t, "Saffron House", st.Restaurant.Name)
				assert.Equal(t, ModeViewing, st.Mode)
				assert.Empty(t, st.Error)
			},
		},
		{
			name:     "missing restaurant",
			storeErr: fmt.Errorf("get restaurant: %w", store.ErrNotFound),
			wantErr:  model.ErrRestaurantNotFound,
			check: func(t *testing.T, st RestaurantState) {
				assert.True(t, st.Missing)
				assert.Nil(t, st.Restaurant)
			},
		},
		{
			name:     "store unreachable",
			storeErr: errors.New("connection refused"),
			wantErr:  model.ErrFetchFailed,
			check: func(t *testing.T, st RestaurantState) {
				assert.Contains(t, st.Error, "connection refused")
				assert.Nil(t, st.Restaurant)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, st := newTestConsole(t)
			st.On("GetRestaurant", mock.Anything, testSession).Return(tt.storeResult, tt.storeErr)

			err := c.Edit.Load(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			tt.check(t, c.Edit.State())
		})
	}
}

func TestEditSession_FetchFailureBlocksUntilReload(t *testing.T) {
	c, st := newTestConsole(t)
	st.On("GetRestaurant", mock.Anything, testSession).Return(nil, errors.New("timeout")).Once()
	st.On("GetRestaurant", mock.Anything, testSession).Return(sampleRestaurant(), nil).Once()

	require.Error(t, c.Edit.Load(context.Background()))
	assert.ErrorIs(t, c.Edit.EnterEdit(), model.ErrFetchFailed)
	assert.ErrorIs(t, c.Edit.RequestDelete(), model.ErrFetchFailed)
	assert.False(t, c.Gate.State().Open)

	require.NoError(t, c.Edit.Load(context.Background()))
	assert.NoError(t, c.Edit.EnterEdit())
}

func TestEditSession_ModeTransitions(t *testing.T) {
	c, _ := loadedConsole(t, nil)

	assert.ErrorIs(t, c.Edit.UpdateField(model.RestaurantFieldName, "X"), model.ErrInvalidState)
	assert.ErrorIs(t, c.Edit.Cancel(), model.ErrInvalidState)
	assert.ErrorIs(t, c.Edit.Commit(context.Background()), model.ErrInvalidState)

	require.NoError(t, c.Edit.EnterEdit())
	assert.Equal(t, ModeEditing, c.Edit.State().Mode)
	assert.ErrorIs(t, c.Edit.EnterEdit(), model.ErrInvalidState)

	require.NoError(t, c.Edit.Cancel())
	assert.Equal(t, ModeViewing, c.Edit.State().Mode)
	assert.Nil(t, c.Edit.State().WorkingCopy)
}

func TestEditSession_CancelRestoresPreEditRestaurant(t *testing.T) {
	c, _ := loadedConsole(t, nil)
	before := c.Edit.State().Restaurant

	require.NoError(t, c.Edit.EnterEdit())
	edits := []struct {
		field string
		value any
	}{
		{model.RestaurantFieldName, "Renamed"},
		{model.RestaurantFieldRating, 1.5},
		{"address.city", "Mysuru"},
		{"address.landmark", "Near the lake"},
		{model.RestaurantFieldPhoneNumber, ""},
	}
	for _, e := range edits {
		require.NoError(t, c.Edit.UpdateField(e.field, e.value))
	}
	working := c.Edit.State().WorkingCopy
	require.NotNil(t, working)
	assert.Equal(t, "Mysuru", working.Address.City)
	assert.Equal(t, "Bengaluru", c.Edit.State().Restaurant.Address.City)

	require.NoError(t, c.Edit.Cancel())
	assert.Equal(t, before, c.Edit.State().Restaurant)
}

func TestEditSession_CommitReplacesWithServerRepresentation(t *testing.T) {
	c, st := loadedConsole(t, nil)

	require.NoError(t, c.Edit.EnterEdit())
	require.NoError(t, c.Edit.UpdateField(model.RestaurantFieldName, "Saffron House & Grill"))

	server := sampleRestaurant()
	server.Name = "Saffron House & Grill"
	server.Rating = 4.5

	st.On("UpdateRestaurant", mock.Anything, testSession, mock.MatchedBy(func(r model.Restaurant) bool {
		return r.Name == "Saffron House & Grill" && r.Rating == 4.2
	})).Return(server, nil).Once()

	require.NoError(t, c.Edit.Commit(context.Background()))

	state := c.Edit.State()
	assert.Equal(t, ModeViewing, state.Mode)
	assert.Nil(t, state.WorkingCopy)
	require.NotNil(t, state.Restaurant)
	assert.Equal(t, 4.5, state.Restaurant.Rating)
}

func TestEditSession_CommitDoesNotApplyBeforeResponse(t *testing.T) {
	c, st := loadedConsole(t, nil)
	require.NoError(t, c.Edit.EnterEdit())
	require.NoError(t, c.Edit.UpdateField(model.RestaurantFieldName, "X"))

	server := sampleRestaurant()
	server.Name = "X"

	st.On("UpdateRestaurant", mock.Anything, testSession, mock.Anything).
		Run(func(args mock.Arguments) {
			inFlight := c.Edit.State()
			assert.Equal(t, "Saffron House", inFlight.Restaurant.Name)
			assert.True(t, inFlight.Busy)
			assert.ErrorIs(t, c.Edit.Commit(context.Background()), model.ErrBusy)
			assert.ErrorIs(t, c.Edit.UpdateField(model.RestaurantFieldName, "Y"), model.ErrBusy)
		}).
		Return(server, nil).Once()

	require.NoError(t, c.Edit.Commit(context.Background()))
	assert.Equal(t, "X", c.Edit.State().Restaurant.Name)
	assert.False(t, c.Edit.State().Busy)
}

func TestEditSession_CommitFailureStaysInEditing(t *testing.T) {
	c, st := loadedConsole(t, nil)

	require.NoError(t, c.Edit.EnterEdit())
	require.NoError(t, c.Edit.UpdateField(model.RestaurantFieldName, "X"))
	st.On("UpdateRestaurant", mock.Anything, testSession, mock.Anything).
		Return(nil, &store.StatusError{Op: "update restaurant", StatusCode: 500}).Once()

	err := c.Edit.Commit(context.Background())

	assert.ErrorIs(t, err, model.ErrMutationFailed)
	state := c.Edit.State()
	assert.Equal(t, ModeEditing, state.Mode)
	require.NotNil(t, state.WorkingCopy)
	assert.Equal(t, "X", state.WorkingCopy.Name)
	assert.Equal(t, "Saffron House", state.Restaurant.Name)

	notices := c.Notices.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "restaurant", notices[0].Source)
}

func TestEditSession_RequestDeleteThenCancel(t *testing.T) {
	c, st := loadedConsole(t, nil)

	require.NoError(t, c.Edit.RequestDelete())
	gate := c.Gate.State()
	assert.True(t, gate.Open)
	assert.Equal(t, RestaurantTarget(), *gate.Target)

	c.Gate.Cancel()

	assert.False(t, c.Gate.State().Open)
	assert.NotNil(t, c.Edit.State().Restaurant)
	st.AssertNotCalled(t, "DeleteRestaurant", mock.Anything, mock.Anything)
}

func TestEditSession_ConfirmDelete(t *testing.T) {
	tests := []struct {
		name        string
		storeErr    error
		wantDeleted bool
		wantNotices int
	}{
		{name: "deleted", wantDeleted: true},
		{name: "store rejects", storeErr: &store.StatusError{Op: "delete restaurant", StatusCode: 403}, wantNotices: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, st := loadedConsole(t, nil)
			st.On("DeleteRestaurant", mock.Anything, testSession).Return(tt.storeErr).Once()

			require.NoError(t, c.Edit.RequestDelete())
			target, err := c.Gate.Confirm(context.Background())
			require.NoError(t, err)
			assert.Equal(t, TargetRestaurant, target.Kind)

			state := c.Edit.State()
			assert.False(t, c.Gate.State().Open)
			assert.Equal(t, tt.wantDeleted, state.Deleted)
			assert.Equal(t, tt.wantDeleted, c.Deleted())
			assert.Equal(t, tt.wantNotices, c.Notices.Len())
			if tt.wantDeleted {
				assert.Equal(t, ExitPath, state.ExitPath)
				assert.Nil(t, state.Restaurant)
				assert.ErrorIs(t, c.Edit.EnterEdit(), model.ErrRestaurantNotFound)
			} else {
				assert.Empty(t, state.ExitPath)
				assert.NotNil(t, state.Restaurant)
			}
		})
	}
}

func TestEditSession_RequestDeleteWhileEditing(t *testing.T) {
	c, _ := loadedConsole(t, nil)
	require.NoError(t, c.Edit.EnterEdit())

	require.NoError(t, c.Edit.RequestDelete())
	assert.True(t, c.Gate.State().Open)
	assert.Equal(t, ModeEditing, c.Edit.State().Mode)
}
