package dashboard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsboard/pkg/domain"
)

func TestStore_Sessions(t *testing.T) {
	st := NewStore(time.Hour, Options{})
	id := st.NewSession()
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, st.Len())

	s, ok := st.Get(id)
	require.True(t, ok)
	assert.False(t, s.Fetched)

	_, ok = st.Get("unknown")
	assert.False(t, ok)

	other := st.NewSession()
	assert.NotEqual(t, id, other)

	_, err := st.Dispatch(id, FetchSucceeded{Articles: []domain.Article{{Author: "A"}}})
	require.NoError(t, err)

	s, ok = st.Get(id)
	require.True(t, ok)
	assert.Len(t, s.Articles, 1)

	s, ok = st.Get(other)
	require.True(t, ok)
	assert.Empty(t, s.Articles, "sessions are isolated")
}

func TestStore_DispatchError(t *testing.T) {
	st := NewStore(time.Hour, Options{})
	id := st.NewSession()
	_, err := st.Dispatch(id, FetchSucceeded{Articles: []domain.Article{{Author: "A"}}})
	require.NoError(t, err)

	s, err := st.Dispatch(id, PayoutEdited{Index: 3, Rate: 1})
	require.ErrorIs(t, err, domain.ErrOutOfRange)
	assert.Len(t, s.Payouts, 1)
	assert.InDelta(t, 10.0, s.Payouts[0].PayoutRate, 1e-9)
}

func TestStore_DispatchUnknownCreates(t *testing.T) {
	st := NewStore(time.Hour, Options{})
	_, err := st.Dispatch("restored-id", FiltersChanged{Filters: domain.FilterState{Type: "news"}})
	require.NoError(t, err)
	s, ok := st.Get("restored-id")
	require.True(t, ok)
	assert.Equal(t, "news", s.Filters.Type)
}

func TestStore_Sweep(t *testing.T) {
	st := NewStore(time.Minute, Options{})
	id := st.NewSession()
	assert.Equal(t, 0, st.Sweep(time.Now()))
	assert.Equal(t, 1, st.Sweep(time.Now().Add(2*time.Minute)))
	_, ok := st.Get(id)
	assert.False(t, ok)

	noTTL := NewStore(0, Options{})
	noTTL.NewSession()
	assert.Equal(t, 0, noTTL.Sweep(time.Now().Add(time.Hour)))
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	st := NewStore(time.Hour, Options{})
	id := st.NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := st.Dispatch(id, FetchSucceeded{Articles: make([]domain.Article, i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	s, ok := st.Get(id)
	require.True(t, ok)
	total := 0
	for _, v := range s.TypeCounts {
		total += v
	}
	assert.Equal(t, len(s.Articles), total, "last write wins but the state stays consistent")
}
