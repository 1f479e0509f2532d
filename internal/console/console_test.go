package console

import (
	"context"
	"errors"
	"testing"

	"restaurant-console/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConsole_Load(t *testing.T) {
	c, _ := loadedConsole(t, soupMenu())

	snap := c.Snapshot()

	assert.Equal(t, "owner-1", snap.OwnerID)
	assert.Equal(t, "Saffron House", snap.Restaurant.Restaurant.Name)
	assert.True(t, snap.Menu.Loaded)
	assert.Len(t, snap.Menu.Items, 1)
	assert.False(t, snap.Gate.Open)
	assert.Zero(t, snap.Notices)
}

func TestConsole_LoadRunsBothFetches(t *testing.T) {
	c, st := newTestConsole(t)
	st.On("GetRestaurant", mock.Anything, testSession).Return(nil, errors.New("down")).Once()
	st.On("GetMenu", mock.Anything, testSession).Return(soupMenu(), nil).Once()

	err := c.Load(context.Background())

	assert.ErrorIs(t, err, model.ErrFetchFailed)
	assert.True(t, c.Menu.State().Loaded)
	assert.NotEmpty(t, c.Edit.State().Error)
}

func TestConsole_NoticesDrain(t *testing.T) {
	c, _ := newTestConsole(t)
	c.Notices.Post("menu", errors.New("first"))
	c.Notices.Post("restaurant", errors.New("second"))

	notices := c.Notices.Drain()

	require.Len(t, notices, 2)
	assert.Equal(t, "first", notices[0].Message)
	assert.Equal(t, "second", notices[1].Message)
	assert.Empty(t, c.Notices.Drain())
}

func TestNoticeBoard_KeepsMostRecent(t *testing.T) {
	b := NewNoticeBoard()
	for i := 0; i < maxNotices+5; i++ {
		b.Post("menu", errors.New("failure"))
	}

	assert.Equal(t, maxNotices, b.Len())
}
