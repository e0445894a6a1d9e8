package bankloader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
	"github.com/yanqian/question-bank/internal/infra/bankcache"
)

func TestFreshLoadsEveryCall(t *testing.T) {
	src := &stubSource{bank: questionbank.Bank{{Question: "Q"}}}
	loader := NewFresh(src, newTestLogger())

	for i := 0; i < 3; i++ {
		bank, err := loader.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, bank, 1)
	}
	require.EqualValues(t, 3, src.calls.Load())
}

func TestCachedLoadsOnce(t *testing.T) {
	src := &stubSource{bank: questionbank.Bank{{Question: "Q"}}}
	loader := NewCached(src, bankcache.NewMemoryCache(), 0, newTestLogger())

	var (
		wg    sync.WaitGroup
		sizes = make([]int, 8)
		errs  = make([]error, 8)
	)
	for i := range sizes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bank, err := loader.Load(context.Background())
			sizes[i], errs[i] = len(bank), err
		}(i)
	}
	wg.Wait()
	for i := range sizes {
		require.NoError(t, errs[i])
		require.Equal(t, 1, sizes[i])
	}
	require.EqualValues(t, 1, src.calls.Load())
}

func TestCachedDoesNotCacheFailures(t *testing.T) {
	src := &stubSource{err: errors.New("unexpected end of JSON input")}
	loader := NewCached(src, bankcache.NewMemoryCache(), time.Hour, newTestLogger())

	_, err := loader.Load(context.Background())
	require.Error(t, err)

	src.setResult(questionbank.Bank{{Question: "Q"}}, nil)
	bank, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, bank, 1)
	require.EqualValues(t, 2, src.calls.Load())
}

func TestCachedFallsBackWhenCacheFails(t *testing.T) {
	src := &stubSource{bank: questionbank.Bank{{Question: "Q"}}}
	loader := NewCached(src, failingCache{}, 0, newTestLogger())

	bank, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, bank, 1)

	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, src.calls.Load())
}

func TestPreload(t *testing.T) {
	count, err := Preload(context.Background(), NewFresh(&stubSource{bank: questionbank.Bank{{}, {}}}, newTestLogger()))
	require.NoError(t, err)
	require.Equal(t, 2, count)

	_, err = Preload(context.Background(), NewFresh(&stubSource{err: errors.New("boom")}, newTestLogger()))
	require.EqualError(t, err, "boom")
}

type stubSource struct {
	mu    sync.Mutex
	bank  questionbank.Bank
	err   error
	calls atomic.Int32
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(ctx context.Context) (questionbank.Bank, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.bank, nil
}

func (s *stubSource) setResult(bank questionbank.Bank, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bank, s.err = bank, err
}

type failingCache struct{}

func (failingCache) Get(context.Context) (questionbank.Bank, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingCache) Put(context.Context, questionbank.Bank, time.Duration) error {
	return errors.New("connection refused")
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
