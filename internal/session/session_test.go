package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factview/internal/cache"
	"github.com/ppiankov/factview/internal/model"
	"github.com/ppiankov/factview/internal/result"
)

func TestState_EmptyUntilRemembered(t *testing.T) {
	var st State

	query, r := st.Snapshot()
	assert.Empty(t, query)
	assert.Nil(t, r)
	assert.True(t, st.Empty())

	st.Remember("q", result.Classify([]byte(`[]`)))
	query, r = st.Snapshot()
	assert.Equal(t, "q", query)
	require.NotNil(t, r)
	assert.Equal(t, model.KindArray, r.Kind)
	assert.False(t, st.Empty())
}

func TestState_EmptyQueryIsNotShareable(t *testing.T) {
	var st State
	st.Remember("", result.Classify([]byte(`[]`)))
	assert.True(t, st.Empty())
}

func TestState_ConcurrentAccess(t *testing.T) {
	var st State
	res := result.Classify([]byte(`{"analyses": []}`))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			st.Remember("q", res)
		}()
		go func() {
			defer wg.Done()
			_, _ = st.Snapshot()
		}()
	}
	wg.Wait()

	assert.False(t, st.Empty())
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(cache.NewDiskCache(t.TempDir(), time.Hour), 0)

	_, err := store.Load("cli")
	assert.ErrorIs(t, err, ErrNotFound)

	st, err := store.LoadOrNew("cli")
	require.NoError(t, err)
	assert.True(t, st.Empty())

	payload := `{"analyses": [{"claim": "a", "label": "true"}], "final_label": "true", "final_justification": "ok"}`
	st.Remember("is a true", result.Classify([]byte(payload)))
	require.NoError(t, store.Save("cli", st))

	loaded, err := store.Load("cli")
	require.NoError(t, err)
	query, r := loaded.Snapshot()
	assert.Equal(t, "is a true", query)
	require.NotNil(t, r)
	assert.Equal(t, model.KindAnalyses, r.Kind)
	require.Len(t, r.Analyses, 1)
	assert.True(t, r.Analyses[0].Affirmative())
	require.NotNil(t, r.FinalVerdict)
	assert.JSONEq(t, payload, string(r.Raw))
}

func TestStore_SaveEmptyDeletes(t *testing.T) {
	store := NewStore(cache.NewMemoryCache(time.Hour, time.Minute), time.Hour)

	st := &State{}
	st.Remember("q", result.Classify([]byte(`[]`)))
	require.NoError(t, store.Save("web", st))

	require.NoError(t, store.Save("web", &State{}))
	_, err := store.Load("web")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CorruptRecord(t *testing.T) {
	c := cache.NewMemoryCache(time.Hour, time.Minute)
	require.NoError(t, c.Set(cache.Key(namespace, "bad"), []byte("{"), 0))

	_, err := NewStore(c, 0).Load("bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
