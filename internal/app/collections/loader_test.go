package collections

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/game-collections-service/internal/cache"
	domain "github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/metrics"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
	"github.com/preston-bernstein/game-collections-service/internal/testutil"
)

var keyA = domain.NewKey("u1", "c1")

func newTestLoader(p providers.CollectionProvider, opts LoaderOptions) (*Loader, *metrics.Recorder) {
	rec := metrics.NewRecorder()
	logger, _ := testutil.NewBufferLogger()
	return NewLoader(p, cache.NewStore(), logger, rec, opts), rec
}

func waitStarted(t *testing.T, p *testutil.GatedProvider) domain.Key {
	t.Helper()
	select {
	case k := <-p.Started:
		return k
	case <-time.After(2 * time.Second):
		t.Fatal("fetch never started")
		return domain.Key{}
	}
}

func TestLoadWithoutUserIsIdleAndNeverFetches(t *testing.T) {
	p := &testutil.StubProvider{}
	l, _ := newTestLoader(p, LoaderOptions{})

	for _, key := range []domain.Key{domain.NewKey("", "c1"), domain.NewKey("  ", "c1")} {
		if st := l.Load(context.Background(), key); st.Status != cache.StatusIdle {
			t.Fatalf("expected idle, got %s", st.Status)
		}
	}
	if st := l.Revalidate(context.Background(), domain.NewKey("", "c1")); st.Status != cache.StatusIdle {
		t.Fatalf("expected idle revalidate, got %s", st.Status)
	}
	if p.Fetches() != 0 {
		t.Fatalf("expected no fetch without a user, got %d", p.Fetches())
	}
}

func TestLoadCachesSuccess(t *testing.T) {
	p := &testutil.StubProvider{View: testutil.SampleView("Favorites", "halo", "hades")}
	l, rec := newTestLoader(p, LoaderOptions{})

	first := l.Load(context.Background(), keyA)
	if first.Status != cache.StatusSuccess || len(first.View.Games) != 2 {
		t.Fatalf("unexpected first state %+v", first)
	}
	second := l.Load(context.Background(), keyA)
	if second.Status != cache.StatusSuccess || second.View.CollectionName != "Favorites" {
		t.Fatalf("unexpected cached state %+v", second)
	}
	if p.Fetches() != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", p.Fetches())
	}
	snap := rec.Snapshot("")
	if snap.CacheHits != 1 || snap.CacheMisses != 1 {
		t.Fatalf("unexpected cache stats %+v", snap)
	}
}

func TestLoadErrorIsReportedAndNotSticky(t *testing.T) {
	p := &testutil.StubProvider{FetchErr: &providers.UpstreamError{Message: "Not authorized", Err: providers.ErrUnauthorized}}
	l, _ := newTestLoader(p, LoaderOptions{})

	st := l.Load(context.Background(), keyA)
	if st.Status != cache.StatusError || providers.Message(st.Err) != "Not authorized" {
		t.Fatalf("expected error state, got %+v", st)
	}

	p.FetchErr = nil
	p.View = testutil.SampleView("Favorites", "halo")
	st = l.Load(context.Background(), keyA)
	if st.Status != cache.StatusSuccess {
		t.Fatalf("expected recovery on next load, got %+v", st)
	}
	if p.Fetches() != 2 {
		t.Fatalf("expected two fetches, got %d", p.Fetches())
	}
}

func TestLoadReturnsLoadingWhileFetchPending(t *testing.T) {
	p := testutil.NewGatedProvider()
	l, _ := newTestLoader(p, LoaderOptions{RenderWait: 20 * time.Millisecond})

	st := l.Load(context.Background(), keyA)
	if st.Status != cache.StatusLoading {
		t.Fatalf("expected loading, got %s", st.Status)
	}
	waitStarted(t, p)

	p.Release <- testutil.SampleView("Favorites", "halo")
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, _ := l.Store().Get(keyA)
		if got.Status == cache.StatusSuccess {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("fetch never completed, state %+v", got)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if st := l.Load(context.Background(), keyA); st.Status != cache.StatusSuccess {
		t.Fatalf("expected success after completion, got %s", st.Status)
	}
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	p := testutil.NewGatedProvider()
	l, _ := newTestLoader(p, LoaderOptions{RenderWait: 2 * time.Second})

	var wg sync.WaitGroup
	results := make([]cache.State, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Load(context.Background(), keyA)
		}(i)
	}
	waitStarted(t, p)
	time.Sleep(20 * time.Millisecond)
	p.Release <- testutil.SampleView("Favorites", "halo")
	wg.Wait()

	for i, st := range results {
		if st.Status != cache.StatusSuccess {
			t.Fatalf("result %d: expected success, got %s", i, st.Status)
		}
	}
	if p.Calls() != 1 {
		t.Fatalf("expected one upstream call, got %d", p.Calls())
	}
}

func TestCancelledRequestDoesNotAbortSharedFetch(t *testing.T) {
	p := testutil.NewGatedProvider()
	l, _ := newTestLoader(p, LoaderOptions{RenderWait: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan cache.State, 1)
	go func() { done <- l.Load(ctx, keyA) }()
	waitStarted(t, p)
	cancel()

	if st := <-done; st.Status != cache.StatusLoading {
		t.Fatalf("expected abandoned caller to see loading, got %s", st.Status)
	}

	p.Release <- testutil.SampleView("Favorites", "halo")
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, _ := l.Store().Get(keyA)
		if got.Status == cache.StatusSuccess {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("detached fetch did not complete, state %+v", got)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRevalidateDropsSupersededResponse(t *testing.T) {
	p := testutil.NewGatedProvider()
	l, _ := newTestLoader(p, LoaderOptions{RenderWait: 20 * time.Millisecond})

	// first fetch is left hanging
	l.Load(context.Background(), keyA)
	waitStarted(t, p)

	done := make(chan cache.State, 1)
	go func() { done <- l.Revalidate(context.Background(), keyA) }()
	waitStarted(t, p)

	// two views queued; whichever fetch takes which, the old generation
	// can never land after the new one has been applied
	p.Release <- testutil.SampleView("Favorites", "halo")
	p.Release <- testutil.SampleView("Favorites", "halo")
	<-done

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, _ := l.Store().Get(keyA)
		if got.Status == cache.StatusSuccess && !got.Stale {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("revalidated fetch never applied, state %+v", got)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if p.Calls() != 2 {
		t.Fatalf("expected two fetches, got %d", p.Calls())
	}
}

func TestStaleGenerationCannotOverwrite(t *testing.T) {
	p := &testutil.StubProvider{View: testutil.SampleView("Favorites", "halo", "hades")}
	l, _ := newTestLoader(p, LoaderOptions{})
	l.Load(context.Background(), keyA)

	old := l.Store().Generation(keyA)
	l.Store().Invalidate(keyA)
	if l.Store().Complete(keyA, old, cache.Succeeded(testutil.SampleView("Favorites", "zelda"), time.Now())) {
		t.Fatalf("expected superseded result to be rejected")
	}
}

func TestPendingServesStaleViewAfterInvalidate(t *testing.T) {
	p := testutil.NewGatedProvider()
	l, _ := newTestLoader(p, LoaderOptions{RenderWait: 20 * time.Millisecond})

	gen := l.Store().Begin(keyA)
	l.Store().Complete(keyA, gen, cache.Succeeded(testutil.SampleView("Favorites", "halo"), time.Now()))

	st := l.Revalidate(context.Background(), keyA)
	waitStarted(t, p)
	if st.Status != cache.StatusSuccess || !st.Stale || !st.View.Contains("halo") {
		t.Fatalf("expected stale view while revalidating, got %+v", st)
	}
	p.Release <- testutil.SampleView("Favorites")
}

func TestMaxAgeExpiresCachedView(t *testing.T) {
	p := &testutil.StubProvider{View: testutil.SampleView("Favorites", "halo")}
	l, _ := newTestLoader(p, LoaderOptions{MaxAge: time.Minute})
	clock := testutil.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	l.now = clock.Now

	l.Load(context.Background(), keyA)
	l.Load(context.Background(), keyA)
	if p.Fetches() != 1 {
		t.Fatalf("expected cached view within max age, got %d fetches", p.Fetches())
	}
	clock.Advance(2 * time.Minute)
	l.Load(context.Background(), keyA)
	if p.Fetches() != 2 {
		t.Fatalf("expected refetch after max age, got %d fetches", p.Fetches())
	}
}

func TestFetchTimeoutSurfacesAsError(t *testing.T) {
	p := testutil.NewGatedProvider()
	l, _ := newTestLoader(p, LoaderOptions{RenderWait: time.Second, FetchTimeout: 10 * time.Millisecond})

	st := l.Load(context.Background(), keyA)
	if st.Status != cache.StatusError || !errors.Is(st.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %+v", st)
	}
	if providers.Message(st.Err) != "The collection source took too long to respond." {
		t.Fatalf("unexpected message %q", providers.Message(st.Err))
	}
}

func TestNewLoaderDefaults(t *testing.T) {
	l := NewLoader(nil, nil, nil, nil, LoaderOptions{})
	if l.opts.RenderWait != defaultRenderWait || l.opts.FetchTimeout != defaultFetchTimeout {
		t.Fatalf("expected defaults, got %+v", l.opts)
	}
	if l.Store() == nil {
		t.Fatalf("expected store to be created")
	}
}
