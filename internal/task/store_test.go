package task

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/tasklist/internal/kv"
)

var epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *kv.MemoryStore, *FakeClock) {
	t.Helper()
	backend := kv.NewMemoryStore()
	clock := NewFakeClock(epoch)
	return NewStore(backend, WithClock(clock)), backend, clock
}

// failingKV accepts reads but rejects every write
type failingKV struct {
	*kv.MemoryStore
}

func (failingKV) Set(string, []byte) error { return errors.New("disk full") }

func TestStore_CreateScenario(t *testing.T) {
	store, backend, _ := newTestStore(t)

	created, err := store.Create("Write spec", "", NotDone, "2024-05-01")
	require.NoError(t, err)

	assert.Equal(t, epoch.UnixMilli(), created.ID)
	assert.Equal(t, "Write spec", created.Title)
	assert.Equal(t, "", created.Summary)
	assert.Equal(t, NotDone, created.State)
	assert.Equal(t, "2024-05-01", created.Deadline)
	assert.Equal(t, []Task{created}, store.Tasks())

	raw, ok, err := backend.Get(DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t,
		`[{"id":1714554000000,"title":"Write spec","summary":"","state":"Not done","deadline":"2024-05-01"}]`,
		string(raw))

	reloaded := NewStore(backend)
	got, err := reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, store.Tasks(), got)
}

func TestStore_CreateGrowsByOneWithUniqueIDs(t *testing.T) {
	store, _, clock := newTestStore(t)

	seen := map[int64]bool{}
	for i := 0; i < 20; i++ {
		before := store.Len()
		created, err := store.Create("task", "", StateUnset, "")
		require.NoError(t, err)

		assert.Equal(t, before+1, store.Len())
		assert.False(t, seen[created.ID], "duplicate id %d", created.ID)
		seen[created.ID] = true

		// only move the clock every few creations so ids must be stepped
		if i%3 == 0 {
			clock.Advance(time.Millisecond)
		}
	}
}

func TestStore_CreateEmptyTitle(t *testing.T) {
	store, backend, _ := newTestStore(t)

	_, err := store.Create("first", "", StateUnset, "")
	require.NoError(t, err)
	before, _, _ := backend.Get(DefaultKey)

	for _, title := range []string{"", "   "} {
		_, err := store.Create(title, "summary", Done, "2024-01-01")

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
		assert.ErrorIs(t, err, ErrValidation)
	}

	after, _, _ := backend.Get(DefaultKey)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, store.Len())
}

func TestStore_Update(t *testing.T) {
	store, backend, clock := newTestStore(t)

	first, err := store.Create("first", "", NotDone, "")
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := store.Create("second", "", NotDone, "")
	require.NoError(t, err)

	updated, err := store.Update(first.ID, "first, edited", "now with a summary", Done, "2024-06-01")
	require.NoError(t, err)

	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "first, edited", updated.Title)
	assert.Equal(t, Done, updated.State)

	tasks := store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, updated, tasks[0])
	assert.Equal(t, second, tasks[1])

	reloaded, err := NewStore(backend).Load()
	require.NoError(t, err)
	assert.Equal(t, tasks, reloaded)
}

func TestStore_UpdateMissing(t *testing.T) {
	store, backend, _ := newTestStore(t)

	_, err := store.Create("only", "", StateUnset, "")
	require.NoError(t, err)
	before := store.Tasks()
	raw, _, _ := backend.Get(DefaultKey)

	_, err = store.Update(42, "ghost", "", Done, "")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(42), nf.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, store.Tasks())

	after, _, _ := backend.Get(DefaultKey)
	assert.Equal(t, raw, after)
}

func TestStore_UpdateEmptyTitle(t *testing.T) {
	store, _, _ := newTestStore(t)

	created, err := store.Create("keep me", "", StateUnset, "")
	require.NoError(t, err)

	_, err = store.Update(created.ID, "", "", Done, "")
	assert.ErrorIs(t, err, ErrValidation)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
}

func TestStore_Delete(t *testing.T) {
	store, backend, clock := newTestStore(t)

	var ids []int64
	for _, title := range []string{"a", "b", "c"} {
		created, err := store.Create(title, "", StateUnset, "")
		require.NoError(t, err)
		ids = append(ids, created.ID)
		clock.Advance(time.Second)
	}

	require.NoError(t, store.Delete(ids[1]))

	tasks := store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Title)
	assert.Equal(t, "c", tasks[1].Title)

	reloaded, err := NewStore(backend).Load()
	require.NoError(t, err)
	assert.Equal(t, tasks, reloaded)

	_, err = store.Get(ids[1])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteUnknownID(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Create("a", "", StateUnset, "")
	require.NoError(t, err)
	before := store.Tasks()

	assert.NoError(t, store.Delete(12345))
	assert.Equal(t, before, store.Tasks())
}

func TestStore_DeleteAfterSortingUsesID(t *testing.T) {
	store, _, clock := newTestStore(t)

	late, err := store.Create("late", "", StateUnset, "2024-03-01")
	require.NoError(t, err)
	clock.Advance(time.Second)
	early, err := store.Create("early", "", StateUnset, "2024-01-01")
	require.NoError(t, err)

	shown := View{SortDeadline: Ascending}.Apply(store.Tasks())
	require.Equal(t, early.ID, shown[0].ID)

	require.NoError(t, store.Delete(shown[0].ID))
	assert.Equal(t, []Task{late}, store.Tasks())
}

func TestStore_LoadMissingOrMalformed(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		set   bool
	}{
		{name: "missing"},
		{name: "garbage", value: []byte("{not json"), set: true},
		{name: "wrong shape", value: []byte(`{"id":1}`), set: true},
		{name: "null", value: []byte("null"), set: true},
		{name: "empty", value: []byte(""), set: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := kv.NewMemoryStore()
			if tt.set {
				require.NoError(t, backend.Set(DefaultKey, tt.value))
			}

			store := NewStore(backend)
			got, err := store.Load()
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.NotNil(t, got)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestStore_LoadIsIdempotent(t *testing.T) {
	store, backend, clock := newTestStore(t)
	for _, title := range []string{"x", "y"} {
		_, err := store.Create(title, "s", InProgress, "2024-02-02")
		require.NoError(t, err)
		clock.Advance(time.Millisecond)
	}

	fresh := NewStore(backend)
	first, err := fresh.Load()
	require.NoError(t, err)
	second, err := fresh.Load()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, store.Tasks(), first)
}

func TestStore_PersistLoadRoundTrip(t *testing.T) {
	store, backend, clock := newTestStore(t)

	a, err := store.Create("a", "first", Done, "2024-01-01")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = store.Create("b", "", NotDone, "")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = store.Create("c", "third", InProgress, "2024-03-03")
	require.NoError(t, err)
	_, err = store.Update(a.ID, "a2", "first", NotDone, "2024-01-02")
	require.NoError(t, err)
	want := store.Tasks()

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NoError(t, store.Persist(loaded))

	again, err := NewStore(backend).Load()
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestStore_LoadKeepsIDsIncreasing(t *testing.T) {
	backend := kv.NewMemoryStore()
	seed := []Task{{ID: epoch.UnixMilli() + 500, Title: "from the future"}}
	b, err := json.Marshal(seed)
	require.NoError(t, err)
	require.NoError(t, backend.Set(DefaultKey, b))

	store := NewStore(backend, WithClock(NewFakeClock(epoch)))
	_, err = store.Load()
	require.NoError(t, err)

	created, err := store.Create("next", "", StateUnset, "")
	require.NoError(t, err)
	assert.Greater(t, created.ID, seed[0].ID)
}

func TestStore_WriteFailureKeepsMemoryInSync(t *testing.T) {
	store := NewStore(failingKV{kv.NewMemoryStore()}, WithClock(NewFakeClock(epoch)))

	_, err := store.Create("doomed", "", StateUnset, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving tasks")
	assert.Equal(t, 0, store.Len())

	require.Error(t, store.Persist([]Task{{ID: 1, Title: "x"}}))
	assert.Equal(t, 0, store.Len())
}

func TestStore_WithKey(t *testing.T) {
	backend := kv.NewMemoryStore()
	store := NewStore(backend, WithKey("work-tasks"))

	_, err := store.Create("a", "", StateUnset, "")
	require.NoError(t, err)

	_, ok, _ := backend.Get("work-tasks")
	assert.True(t, ok)
	_, ok, _ = backend.Get(DefaultKey)
	assert.False(t, ok)
	assert.Equal(t, "work-tasks", store.Key())
}

func TestStore_TasksReturnsCopy(t *testing.T) {
	store, _, _ := newTestStore(t)
	_, err := store.Create("original", "", StateUnset, "")
	require.NoError(t, err)

	tasks := store.Tasks()
	tasks[0].Title = "mutated"

	assert.Equal(t, "original", store.Tasks()[0].Title)
}
