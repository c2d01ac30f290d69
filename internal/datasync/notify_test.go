package datasync

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/portfolio/internal/content"
)

func TestFeed_RecentNewestFirst(t *testing.T) {
	feed := NewFeed(3)
	for _, msg := range []string{"one", "two", "three", "four"} {
		feed.Notify(Notification{Message: msg})
	}

	got := feed.Recent(0)
	assert.Equal(t, []string{"four", "three", "two"}, messagesOf(got))
	assert.Equal(t, []string{"four"}, messagesOf(feed.Recent(1)))
}

func TestFeed_PartiallyFilled(t *testing.T) {
	feed := NewFeed(0)
	assert.Empty(t, feed.Recent(10))

	feed.Notify(Notification{Message: "only"})
	assert.Equal(t, []string{"only"}, messagesOf(feed.Recent(10)))
}

func messagesOf(items []Notification) []string {
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.Message)
	}
	return out
}

func TestMultiNotifier(t *testing.T) {
	var got []string
	fn := NotifierFunc(func(n Notification) { got = append(got, n.Message) })
	MultiNotifier{fn, nil, fn}.Notify(Notification{Message: "hi"})
	assert.Equal(t, []string{"hi", "hi"}, got)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	notifier := LogNotifier{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	notifier.Notify(Notification{Level: LevelError, Op: OpAdd, Collection: content.CollectionSkills,
		Message: "Failed to add skill", Detail: "boom"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="Failed to add skill"`)
	assert.Contains(t, out, "collection=skills")
	assert.Contains(t, out, "detail=boom")
}

func TestResult_Message(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Op: OpAdd, Collection: content.CollectionProjects}, "project added successfully"},
		{Result{Op: OpUpdate, Collection: content.CollectionEducation}, "education updated successfully"},
		{Result{Op: OpDelete, Collection: content.CollectionTestimonials}, "testimonial deleted successfully"},
		{Result{Op: OpAdd, Collection: content.CollectionBlogPosts, Err: errors.New("x")}, "Failed to add blogPost"},
		{Result{Op: OpUpdate, Collection: content.CollectionBrands, Err: errors.New("x")}, "Failed to update brand"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.Message())
		})
	}
}
