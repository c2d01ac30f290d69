package datasync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonathan/portfolio/internal/content"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a user-visible message about a sync operation.
type Notification struct {
	Time       time.Time          `json:"time"`
	Level      Level              `json:"level"`
	Op         Op                 `json:"op"`
	Collection content.Collection `json:"collection"`
	Message    string             `json:"message"`
	Detail     string             `json:"detail,omitempty"`
}

// Notifier receives notifications raised by the engine. Implementations must
// be safe for concurrent use.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// MultiNotifier sends every notification to each of its members.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	attrs := []any{"op", string(n.Op), "collection", string(n.Collection)}
	if n.Detail != "" {
		attrs = append(attrs, "detail", n.Detail)
	}
	logger.Log(context.Background(), level, n.Message, attrs...)
}

// DefaultFeedSize is the number of notifications a Feed keeps when created
// with a non-positive size.
const DefaultFeedSize = 50

// Feed keeps the most recent notifications in a fixed-size ring.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	next  int
	full  bool
}

// NewFeed returns a Feed holding up to size notifications.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{items: make([]Notification, size)}
}

func (f *Feed) Notify(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[f.next] = n
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}
}

// Recent returns up to limit notifications, newest first. A non-positive
// limit returns everything held.
func (f *Feed) Recent(limit int) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := f.next
	if f.full {
		count = len(f.items)
	}
	if limit <= 0 || limit > count {
		limit = count
	}
	out := make([]Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.items)) % len(f.items)
		out = append(out, f.items[idx])
	}
	return out
}
