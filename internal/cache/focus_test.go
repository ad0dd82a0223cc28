package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
)

type memoryCache struct {
	mu      sync.Mutex
	items   map[string]engine.FocusPredictions
	failGet bool
}

func (c *memoryCache) Get(_ context.Context, key string) (engine.FocusPredictions, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errors.New("redis down")
	}
	p, ok := c.items[key]
	return p, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, p engine.FocusPredictions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = p
	return nil
}

type countingPredictor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingPredictor) PredictFocus(context.Context, domain.UserProfile, []float64) (engine.FocusPredictions, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return engine.FocusPredictions{"Wednesday": {"full body"}}, nil
}

func TestFocusKey(t *testing.T) {
	a := FocusKey("v1", []float64{0, 1, 30, 3})
	if !strings.HasPrefix(a, "flexin:focus:v1:") {
		t.Errorf("FocusKey() = %q, want the versioned prefix", a)
	}
	if a != FocusKey("v1", []float64{0, 1, 30, 3}) {
		t.Error("FocusKey() is not deterministic")
	}
	if a == FocusKey("v2", []float64{0, 1, 30, 3}) {
		t.Error("vocabulary version must change the key")
	}
	if a == FocusKey("v1", []float64{0, 1, 31, 3}) {
		t.Error("different rows must not share a key")
	}
}

func TestCachedFocusPredictor(t *testing.T) {
	ctx := context.Background()
	store := &memoryCache{items: map[string]engine.FocusPredictions{}}
	next := &countingPredictor{}
	p := NewCachedFocusPredictor(next, store, "v1", nil)
	row := []float64{0, 0, 30, 1}

	for i := 0; i < 3; i++ {
		got, err := p.PredictFocus(ctx, domain.UserProfile{}, row)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(engine.FocusPredictions{"Wednesday": {"full body"}}, got); diff != "" {
			t.Errorf("PredictFocus() mismatch (-want +got):\n%s", diff)
		}
	}
	if next.calls != 1 {
		t.Errorf("upstream called %d times, want 1", next.calls)
	}
}

func TestCachedFocusPredictorBypassesBrokenCache(t *testing.T) {
	store := &memoryCache{items: map[string]engine.FocusPredictions{}, failGet: true}
	next := &countingPredictor{}
	p := NewCachedFocusPredictor(next, store, "v1", nil)

	if _, err := p.PredictFocus(context.Background(), domain.UserProfile{}, []float64{1}); err != nil {
		t.Fatalf("PredictFocus() error = %v", err)
	}
	if next.calls != 1 {
		t.Errorf("upstream called %d times, want 1", next.calls)
	}
}

func TestCachedFocusPredictorDoesNotCacheErrors(t *testing.T) {
	store := &memoryCache{items: map[string]engine.FocusPredictions{}}
	next := &countingPredictor{err: errors.New("model offline")}
	p := NewCachedFocusPredictor(next, store, "v1", nil)

	if _, err := p.PredictFocus(context.Background(), domain.UserProfile{}, []float64{1}); err == nil {
		t.Fatal("expected the upstream error")
	}
	if len(store.items) != 0 {
		t.Errorf("cached %d entries after a failure", len(store.items))
	}
}

// slowPredictor blocks until released and records whether its context was canceled meanwhile.
type slowPredictor struct {
	started  chan struct{}
	release  chan struct{}
	once     sync.Once
	mu       sync.Mutex
	ctxErrAt error
}

func (p *slowPredictor) PredictFocus(ctx context.Context, _ domain.UserProfile, _ []float64) (engine.FocusPredictions, error) {
	p.once.Do(func() { close(p.started) })
	<-p.release
	p.mu.Lock()
	p.ctxErrAt = ctx.Err()
	p.mu.Unlock()
	return engine.FocusPredictions{"Monday": {"chest"}}, nil
}

func TestCachedFocusPredictorCancelledCallerDoesNotFailOthers(t *testing.T) {
	store := &memoryCache{items: map[string]engine.FocusPredictions{}}
	next := &slowPredictor{started: make(chan struct{}), release: make(chan struct{})}
	p := NewCachedFocusPredictor(next, store, "v1", nil)
	row := []float64{1, 2, 40, 4}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := p.PredictFocus(ctxA, domain.UserProfile{}, row)
		errA <- err
	}()
	<-next.started

	type result struct {
		preds engine.FocusPredictions
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		preds, err := p.PredictFocus(context.Background(), domain.UserProfile{}, row)
		resB <- result{preds, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("cancelled caller err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting on the shared call")
	}

	close(next.release)
	select {
	case got := <-resB:
		if got.err != nil {
			t.Fatalf("second caller err = %v, want nil", got.err)
		}
		if diff := cmp.Diff(engine.FocusPredictions{"Monday": {"chest"}}, got.preds); diff != "" {
			t.Errorf("predictions mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}

	next.mu.Lock()
	defer next.mu.Unlock()
	if next.ctxErrAt != nil {
		t.Errorf("upstream context was cancelled: %v", next.ctxErrAt)
	}
}
