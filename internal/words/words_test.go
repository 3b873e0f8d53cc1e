package words

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/wordgame/assets"
)

func TestNewListNormalizes(t *testing.T) {
	l := NewList(5, []string{" Crane ", "SLATE", "crane", "abc", "toolong", "cr4ne", "", "slate"})
	got := l.Words()
	want := []string{"crane", "slate"}
	if len(got) != len(want) {
		t.Fatalf("words = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("words = %v, want %v", got, want)
		}
	}
	if !l.Contains("CRANE") || l.Contains("abc") {
		t.Fatal("Contains mismatch")
	}
	if l.WordLength() != 5 || l.Len() != 2 || l.At(1) != "slate" {
		t.Fatalf("accessors: len=%d at1=%q", l.Len(), l.At(1))
	}
}

func TestNilListIsEmpty(t *testing.T) {
	var l *List
	if l.Len() != 0 || l.Contains("crane") || l.WordLength() != 0 {
		t.Fatal("nil list should behave as empty")
	}
}

func TestFSSource(t *testing.T) {
	fsys := fstest.MapFS{
		"5letterwords.json": {Data: []byte(`{"words":["Crane","SLATE","oops"]}`)},
		"6letters.txt":      {Data: []byte("# six letter words\nStrand\n\nbridge\n")},
		"7letterwords.json": {Data: []byte(`{"words":`)},
	}
	ctx := context.Background()

	l, err := FSSource{FS: fsys}.Load(ctx, 5)
	if err != nil {
		t.Fatalf("Load(5): %v", err)
	}
	if l.Len() != 2 || !l.Contains("crane") {
		t.Fatalf("Load(5) = %v", l.Words())
	}

	l6, err := FSSource{FS: fsys, Pattern: "%dletters.txt"}.Load(ctx, 6)
	if err != nil {
		t.Fatalf("Load(6): %v", err)
	}
	if l6.Len() != 2 || !l6.Contains("strand") {
		t.Fatalf("Load(6) = %v", l6.Words())
	}

	if _, err := (FSSource{FS: fsys}).Load(ctx, 8); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("missing file: %v", err)
	}
	if _, err := (FSSource{FS: fsys}).Load(ctx, 7); err == nil || errors.Is(err, ErrUnavailable) {
		t.Fatalf("malformed file should be a parse error, got %v", err)
	}
	if _, err := (FSSource{FS: fsys}).Load(ctx, 0); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("length 0: %v", err)
	}
}

func TestEmbeddedAssets(t *testing.T) {
	src := FSSource{FS: assets.Words()}
	for _, n := range []int{5, 6} {
		l, err := src.Load(context.Background(), n)
		if err != nil {
			t.Fatalf("embedded %d: %v", n, err)
		}
		if l.Len() < 100 {
			t.Fatalf("embedded %d has only %d words", n, l.Len())
		}
	}
	l5, _ := src.Load(context.Background(), 5)
	if !l5.Contains("crane") || !l5.Contains("slate") {
		t.Fatal("embedded 5-letter list lacks crane/slate")
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lists/5letterwords.json":
			_, _ = w.Write([]byte(`{"words":["CRANE","slate"]}`))
		case "/lists/9letterwords.json":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := HTTPSource{BaseURL: srv.URL + "/lists/", Client: srv.Client()}
	l, err := src.Load(context.Background(), 5)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.Len() != 2 || !l.Contains("crane") {
		t.Fatalf("words = %v", l.Words())
	}
	if _, err := src.Load(context.Background(), 6); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("404: %v", err)
	}
	if _, err := src.Load(context.Background(), 9); err == nil || errors.Is(err, ErrUnavailable) {
		t.Fatalf("500 should be a fetch error, got %v", err)
	}
}

type countingSource struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (s *countingSource) Load(ctx context.Context, length int) (*List, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return NewList(length, []string{"crane"}), nil
}

func TestCacheCollapsesConcurrentLoads(t *testing.T) {
	src := &countingSource{release: make(chan struct{})}
	c := NewCache(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Load(context.Background(), 5); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	for src.calls.Load() == 0 {
		runtime.Gosched()
	}
	close(src.release)
	wg.Wait()

	if _, err := c.Load(context.Background(), 5); err != nil {
		t.Fatalf("cached Load: %v", err)
	}
	if n := src.calls.Load(); n > 8 || n < 1 {
		t.Fatalf("unexpected calls %d", n)
	}
	before := src.calls.Load()
	_, _ = c.Load(context.Background(), 5)
	if src.calls.Load() != before {
		t.Fatal("cached length hit the source again")
	}
	if got := c.Stats(); got[5] != 1 {
		t.Fatalf("stats = %v", got)
	}
}

func TestCacheDoesNotKeepFailures(t *testing.T) {
	src := &countingSource{err: ErrUnavailable}
	c := NewCache(src)
	if _, err := c.Load(context.Background(), 5); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("first: %v", err)
	}
	src.err = nil
	if _, err := c.Load(context.Background(), 5); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if src.calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", src.calls.Load())
	}
}

// slowSource blocks until released and notes whether its ctx was cancelled.
type slowSource struct {
	calls     atomic.Int32
	sawCancel atomic.Bool
	release   chan struct{}
}

func (s *slowSource) Load(ctx context.Context, length int) (*List, error) {
	s.calls.Add(1)
	select {
	case <-s.release:
	case <-ctx.Done():
		s.sawCancel.Store(true)
		return nil, ctx.Err()
	}
	return NewList(length, []string{"crane"}), nil
}

func TestCacheLoadSurvivesCancelledCaller(t *testing.T) {
	src := &slowSource{release: make(chan struct{})}
	c := NewCache(src)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Load(ctxA, 5)
		errA <- err
	}()
	for src.calls.Load() == 0 {
		runtime.Gosched()
	}

	errB := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background(), 5)
		errB <- err
	}()

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller = %v, want context.Canceled", err)
	}
	close(src.release)
	if err := <-errB; err != nil {
		t.Fatalf("second caller = %v", err)
	}
	if src.sawCancel.Load() {
		t.Fatal("shared load was cancelled with the first caller")
	}
	if got := c.Stats(); got[5] != 1 {
		t.Fatalf("stats = %v", got)
	}
}
