package console

import (
	"sync"
	"time"
)

const maxNotices = 20

// Notice is a transient, non-blocking failure report for the host to toast.
type Notice struct {
	Source  string    `json:"source"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// NoticeBoard keeps the most recent notices until the host drains them.
type NoticeBoard struct {
	mu      sync.Mutex
	notices []Notice
	now     func() time.Time
}

// NewNoticeBoard creates an empty board.
func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{now: time.Now}
}

// Post records a notice, dropping the oldest once the board is full.
func (b *NoticeBoard) Post(source string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.notices = append(b.notices, Notice{Source: source, Message: err.Error(), At: b.now()})
	if len(b.notices) > maxNotices {
		b.notices = b.notices[len(b.notices)-maxNotices:]
	}
}

// Drain returns the pending notices oldest first and clears the board.
func (b *NoticeBoard) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.notices
	b.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Len returns the number of pending notices.
func (b *NoticeBoard) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.notices)
}
