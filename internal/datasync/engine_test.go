package datasync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio/internal/content"
)

var errStore = errors.New("store unavailable")

// fakeStore keeps rows per target and fails any call whose "op:target" key is
// listed in failures.
type fakeStore struct {
	mu       sync.Mutex
	rows     map[string][]content.Wire
	failures map[string]bool
	lastRow  content.Wire
	echo     func(content.Wire) content.Wire
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string][]content.Wire{}, failures: map[string]bool{}}
}

func (f *fakeStore) failOn(op, target string) { f.failures[op+":"+target] = true }

func (f *fakeStore) List(_ context.Context, target, _ string, _ bool) ([]content.Wire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures["list:"+target] {
		return nil, errStore
	}
	return f.rows[target], nil
}

func (f *fakeStore) Insert(_ context.Context, target string, row content.Wire) (content.Wire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRow = row
	if f.failures["insert:"+target] {
		return nil, errStore
	}
	out := maps.Clone(row)
	if _, ok := out["id"]; !ok {
		out["id"] = "generated"
	}
	if f.echo != nil {
		out = f.echo(row)
	}
	f.rows[target] = append([]content.Wire{out}, f.rows[target]...)
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, target, id string, row content.Wire) (content.Wire, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRow = row
	if f.failures["update:"+target] {
		return nil, errStore
	}
	out := maps.Clone(row)
	out["id"] = id
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, target, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures["delete:"+target] {
		return errStore
	}
	return nil
}

type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Message)
	}
	return out
}

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestEngine(store Store) (*Engine, *Cache, *recorder) {
	cache := NewCache()
	rec := &recorder{}
	engine := NewEngine(store, cache,
		WithNotifier(rec),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedNow }),
	)
	return engine, cache, rec
}

func skill(id, name string) content.Skill {
	return content.Skill{Meta: content.Meta{ID: id}, Name: name, Percentage: 50}
}

func seedABC(cache *Cache) {
	cache.Replace(content.CollectionSkills, []content.Record{skill("a", "A"), skill("b", "B"), skill("c", "C")})
}

func recordIDs(records []content.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.RecordID())
	}
	return out
}

func TestRefresh_PartialFailure(t *testing.T) {
	store := newFakeStore()
	for _, c := range content.Collections() {
		store.rows[c.Target()] = []content.Wire{{"id": string(c) + "-1"}}
	}
	store.failOn("list", "blog_posts")

	engine, cache, rec := newTestEngine(store)
	require.True(t, cache.Loading())

	report := engine.Refresh(context.Background())

	assert.False(t, cache.Loading())
	assert.Equal(t, []content.Collection{content.CollectionBlogPosts}, report.Failed())
	assert.False(t, report.OK())
	for _, c := range content.Collections() {
		if c == content.CollectionBlogPosts {
			assert.Empty(t, cache.Items(c))
			continue
		}
		assert.Equal(t, []string{string(c) + "-1"}, recordIDs(cache.Items(c)), string(c))
	}
	assert.Equal(t, []string{"Failed to load blogPost"}, rec.messages())
}

// gatedStore runs onList before every List call of the wrapped store.
type gatedStore struct {
	*fakeStore
	onList func(target string)
}

func (g *gatedStore) List(ctx context.Context, target, orderBy string, all bool) ([]content.Wire, error) {
	g.onList(target)
	return g.fakeStore.List(ctx, target, orderBy, all)
}

func TestRefresh_ListsCollectionsConcurrently(t *testing.T) {
	n := len(content.Collections())
	var arrived sync.WaitGroup
	arrived.Add(n)
	allArrived := make(chan struct{})
	go func() {
		arrived.Wait()
		close(allArrived)
	}()

	var (
		cache    *Cache
		timeouts atomic.Int32
		mu       sync.Mutex
		loading  []bool
	)
	store := &gatedStore{fakeStore: newFakeStore(), onList: func(string) {
		mu.Lock()
		loading = append(loading, cache.Loading())
		mu.Unlock()
		arrived.Done()
		select {
		case <-allArrived:
		case <-time.After(5 * time.Second):
			timeouts.Add(1)
		}
	}}
	engine, c, _ := newTestEngine(store)
	cache = c

	report := engine.Refresh(context.Background())

	require.True(t, report.OK())
	assert.Zero(t, timeouts.Load(), "every List call must be in flight at once")
	assert.Len(t, loading, n)
	for _, l := range loading {
		assert.True(t, l)
	}
	assert.False(t, cache.Loading())
}

func TestRefresh_OverlappingRefreshesStayLoading(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	store := &gatedStore{fakeStore: newFakeStore(), onList: func(target string) {
		if target != "skills" {
			return
		}
		first := false
		once.Do(func() {
			first = true
			close(entered)
		})
		if first {
			<-release
		}
	}}
	engine, cache, _ := newTestEngine(store)

	done := make(chan LoadReport, 1)
	go func() { done <- engine.Refresh(context.Background()) }()
	<-entered

	second := engine.Refresh(context.Background())
	require.True(t, second.OK())
	assert.True(t, cache.Loading(), "first refresh is still in flight")

	close(release)
	first := <-done
	require.True(t, first.OK())
	assert.False(t, cache.Loading())
}

func TestRefresh_FailedCollectionKeepsPreviousRecords(t *testing.T) {
	store := newFakeStore()
	store.failOn("list", "skills")
	engine, cache, _ := newTestEngine(store)
	seedABC(cache)

	report := engine.Refresh(context.Background())

	assert.Equal(t, []string{"a", "b", "c"}, recordIDs(cache.Items(content.CollectionSkills)))
	require.Len(t, report.Collections, 8)
	assert.ErrorIs(t, report.Collections[0].Err, errStore)
	assert.NotEmpty(t, report.Collections[0].Error)
}

func TestRefresh_MapsRowsIntoVariants(t *testing.T) {
	store := newFakeStore()
	store.rows["blog_posts"] = []content.Wire{
		{"id": "p2", "title": "Newer", "published_date": "2024-02-01", "author_name": "Jane"},
		{"id": "p1", "title": "Older", "published_date": "2024-01-01"},
	}
	engine, cache, _ := newTestEngine(store)

	report := engine.Refresh(context.Background())
	require.True(t, report.OK())

	posts := cache.BlogPosts()
	require.Len(t, posts, 2)
	assert.Equal(t, "Newer", posts[0].Title)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "Jane", posts[0].Author.Name)
	assert.Nil(t, posts[1].Author)
	assert.Equal(t, 2, report.Collections[5].Count)
}

func TestAddItem_Prepends(t *testing.T) {
	store := newFakeStore()
	engine, cache, rec := newTestEngine(store)
	seedABC(cache)

	res := engine.AddItem(context.Background(), skill("n", "New"))

	require.True(t, res.OK())
	assert.Equal(t, []string{"n", "a", "b", "c"}, recordIDs(cache.Items(content.CollectionSkills)))
	assert.Equal(t, "skill added successfully", res.Message())
	assert.Equal(t, []string{"skill added successfully"}, rec.messages())
}

func TestAddItem_FailureLeavesCache(t *testing.T) {
	store := newFakeStore()
	store.failOn("insert", "skills")
	engine, cache, rec := newTestEngine(store)
	seedABC(cache)

	res := engine.AddItem(context.Background(), skill("n", "New"))

	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, errStore)
	assert.Equal(t, []string{"a", "b", "c"}, recordIDs(cache.Items(content.CollectionSkills)))
	assert.Equal(t, []string{"Failed to add skill"}, rec.messages())
}

func TestAddItem_NilRecord(t *testing.T) {
	for _, rec := range []content.Record{nil, (*content.Skill)(nil), (*content.BlogPost)(nil)} {
		store := newFakeStore()
		engine, cache, notes := newTestEngine(store)
		seedABC(cache)

		var res Result
		require.NotPanics(t, func() { res = engine.AddItem(context.Background(), rec) })

		assert.ErrorIs(t, res.Err, errNilRecord)
		assert.Nil(t, store.lastRow)
		assert.Equal(t, []string{"a", "b", "c"}, recordIDs(cache.Items(content.CollectionSkills)))
		require.Len(t, notes.items, 1)
		assert.Equal(t, LevelError, notes.items[0].Level)
	}
}

func TestAddItem_LeavesIDAssignmentToStore(t *testing.T) {
	store := newFakeStore()
	engine, cache, _ := newTestEngine(store)

	res := engine.AddItem(context.Background(), &content.Brand{Name: "Acme"})

	require.True(t, res.OK())
	assert.NotContains(t, store.lastRow, "id")
	assert.Equal(t, "generated", res.ID)
	got, ok := cache.Find(content.CollectionBrands, "generated")
	require.True(t, ok)
	assert.Equal(t, "Acme", got.(content.Brand).Name)
}

func TestAddItem_ExperienceScenario(t *testing.T) {
	store := newFakeStore()
	store.echo = func(content.Wire) content.Wire {
		return content.Wire{
			"id": "e1", "title": "Manager", "company": "Acme", "location": "NY",
			"start_date": "2021-06-01", "end_date": nil, "is_currently": true,
			"description": "...", "created_at": "2024-01-01T00:00:00Z",
		}
	}
	engine, cache, _ := newTestEngine(store)
	cache.Replace(content.CollectionExperiences, nil)

	res := engine.AddItem(context.Background(), content.Experience{
		Meta:  content.Meta{ID: "e1"},
		Title: "Manager", Company: "Acme", Location: "NY",
		StartDate: "2021-06-01", EndDate: nil, Description: "...", IsCurrently: true,
	})
	require.True(t, res.OK())

	assert.Equal(t, "2021-06-01", store.lastRow["start_date"])
	assert.Equal(t, true, store.lastRow["is_currently"])
	assert.Nil(t, store.lastRow["end_date"])

	exps := cache.Experiences()
	require.Len(t, exps, 1)
	assert.Equal(t, "2021-06-01", exps[0].StartDate)
	assert.True(t, exps[0].IsCurrently)
	assert.Nil(t, exps[0].EndDate)
	require.NotNil(t, exps[0].CreatedAt)
}

func TestUpdateItem_ReplacesInPlace(t *testing.T) {
	store := newFakeStore()
	engine, cache, rec := newTestEngine(store)
	seedABC(cache)

	res := engine.UpdateItem(context.Background(), skill("b", "B2"))

	require.True(t, res.OK())
	skills := cache.Skills()
	require.Len(t, skills, 3)
	assert.Equal(t, []string{"A", "B2", "C"}, []string{skills[0].Name, skills[1].Name, skills[2].Name})
	assert.Equal(t, fixedNow, store.lastRow["updated_at"])
	require.NotNil(t, skills[1].UpdatedAt)
	assert.Equal(t, fixedNow, *skills[1].UpdatedAt)
	assert.Equal(t, []string{"skill updated successfully"}, rec.messages())
}

func TestUpdateItem_Failures(t *testing.T) {
	tests := []struct {
		name    string
		record  content.Record
		fail    bool
		wantErr error
	}{
		{name: "store error", record: skill("b", "B2"), fail: true, wantErr: errStore},
		{name: "missing id", record: skill("", "B2"), wantErr: ErrMissingID},
		{name: "unknown collection", record: content.Raw{Name: "widgets", Fields: content.Wire{"id": "b"}}, wantErr: content.ErrUnknownCollection},
		{name: "nil record", record: nil, wantErr: errNilRecord},
		{name: "nil variant pointer", record: (*content.Skill)(nil), wantErr: errNilRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			if tt.fail {
				store.failOn("update", "skills")
			}
			engine, cache, rec := newTestEngine(store)
			seedABC(cache)

			res := engine.UpdateItem(context.Background(), tt.record)

			assert.ErrorIs(t, res.Err, tt.wantErr)
			assert.Equal(t, []string{"A", "B", "C"}, names(cache.Skills()))
			assert.Len(t, rec.items, 1)
			assert.Equal(t, LevelError, rec.items[0].Level)
		})
	}
}

func names(skills []content.Skill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.Name)
	}
	return out
}

func TestDeleteItem(t *testing.T) {
	t.Run("removes by id", func(t *testing.T) {
		engine, cache, rec := newTestEngine(newFakeStore())
		seedABC(cache)

		res := engine.DeleteItem(context.Background(), content.CollectionSkills, "b")

		require.True(t, res.OK())
		assert.Equal(t, []string{"a", "c"}, recordIDs(cache.Items(content.CollectionSkills)))
		assert.Equal(t, []string{"skill deleted successfully"}, rec.messages())
	})

	t.Run("failure leaves cache", func(t *testing.T) {
		store := newFakeStore()
		store.failOn("delete", "skills")
		engine, cache, rec := newTestEngine(store)
		seedABC(cache)

		res := engine.DeleteItem(context.Background(), content.CollectionSkills, "b")

		assert.ErrorIs(t, res.Err, errStore)
		assert.Equal(t, []string{"a", "b", "c"}, recordIDs(cache.Items(content.CollectionSkills)))
		assert.Equal(t, []string{"Failed to delete skill"}, rec.messages())
	})

	t.Run("blog posts use their store target", func(t *testing.T) {
		store := newFakeStore()
		store.failOn("delete", "blog_posts")
		engine, _, _ := newTestEngine(store)

		res := engine.DeleteItem(context.Background(), content.CollectionBlogPosts, "p1")
		assert.ErrorIs(t, res.Err, errStore)
		assert.Equal(t, "Failed to delete blogPost", res.Message())
	})
}

func TestEngine_ConcurrentMutations(t *testing.T) {
	engine, cache, _ := newTestEngine(newFakeStore())
	seedABC(cache)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine.UpdateItem(context.Background(), skill("b", "B"))
			_ = cache.Items(content.CollectionSkills)
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"a", "b", "c"}, recordIDs(cache.Items(content.CollectionSkills)))
}
