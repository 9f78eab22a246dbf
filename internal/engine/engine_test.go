package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/genricoloni/artshow/internal/domain"
	"github.com/genricoloni/artshow/internal/playlist"
	"go.uber.org/zap"
)

// fakePlaylist is a fixed in-memory playlist
type fakePlaylist []string

func (p fakePlaylist) Len() int { return len(p) }
func (p fakePlaylist) At(i int) string { return p[playlist.Wrap(i, len(p))] }

// fakePreparer records calls, fails for paths in bad and optionally waits on gate
type fakePreparer struct {
	mu    sync.Mutex
	bad   map[string]bool
	calls []string
	gate  chan struct{}
}

func (f *fakePreparer) Prepare(ctx context.Context, path string, res domain.ScreenResolution) (*domain.Slide, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	n := len(f.calls)
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}
	if f.bad[path] {
		return nil, fmt.Errorf("%w %s: corrupt", domain.ErrDecode, path)
	}
	return &domain.Slide{ID: fmt.Sprintf("%s#%d", path, n), Path: path, Target: res}, nil
}

func (f *fakePreparer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var testRes = &domain.ScreenResolution{Width: 1920, Height: 1080}

func startEngine(t *testing.T, list fakePlaylist, prep *fakePreparer) *Engine {
	t.Helper()
	e := NewEngine(zap.NewNop(), list, prep, testRes)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = e.Stop(ctx)
	})
	return e
}

func awaitFirst(t *testing.T, e *Engine) *domain.Slide {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	slide, err := e.Await(ctx)
	if err != nil {
		t.Fatalf("await failed: %v", err)
	}
	return slide
}

// pollUntil polls like the display loop does, once per simulated frame
func pollUntil(t *testing.T, e *Engine) *domain.Slide {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		slide, err := e.Poll()
		if err != nil {
			t.Fatalf("poll failed: %v", err)
		}
		if slide != nil {
			return slide
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("Timeout: no slide became ready")
	return nil
}

func waitForState(t *testing.T, e *Engine, want SlotState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for e.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Timeout: slot state %v, expected %v", e.State(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEngine_SkipsCorruptFilesCyclically(t *testing.T) {
	list := fakePlaylist{"file1.jpg", "file2.jpg", "file3.jpg"}
	prep := &fakePreparer{bad: map[string]bool{"file2.jpg": true}}
	e := startEngine(t, list, prep)

	got := []string{awaitFirst(t, e).Path}
	for i := 0; i < 5; i++ {
		got = append(got, pollUntil(t, e).Path)
	}

	want := []string{"file1.jpg", "file3.jpg", "file1.jpg", "file3.jpg", "file1.jpg", "file3.jpg"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEngine_SetsSlideIndex(t *testing.T) {
	list := fakePlaylist{"a.png", "b.png", "c.png"}
	e := startEngine(t, list, &fakePreparer{bad: map[string]bool{"b.png": true}})

	if first := awaitFirst(t, e); first.Index != 0 {
		t.Errorf("expected index 0, got %d", first.Index)
	}
	if next := pollUntil(t, e); next.Index != 2 {
		t.Errorf("expected index 2 after skipping b.png, got %d", next.Index)
	}
}

func TestEngine_AtMostOneAhead(t *testing.T) {
	list := fakePlaylist{"1.png", "2.png", "3.png", "4.png", "5.png"}
	prep := &fakePreparer{}
	e := startEngine(t, list, prep)

	awaitFirst(t, e)
	waitForState(t, e, SlotReady)

	// Give a misbehaving worker time to run ahead
	time.Sleep(50 * time.Millisecond)
	if n := prep.callCount(); n != 2 {
		t.Fatalf("expected exactly 2 preparations (displayed + one ahead), got %d", n)
	}

	pollUntil(t, e)
	waitForState(t, e, SlotReady)
	time.Sleep(50 * time.Millisecond)
	if n := prep.callCount(); n != 3 {
		t.Fatalf("expected 3 preparations after one pickup, got %d", n)
	}
}

func TestEngine_PollDoesNotBlockWhilePreparing(t *testing.T) {
	list := fakePlaylist{"a.png", "b.png"}
	prep := &fakePreparer{gate: make(chan struct{})}
	e := startEngine(t, list, prep)

	prep.gate <- struct{}{}
	awaitFirst(t, e)

	// b.png is held in Prepare
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if slide, err := e.Poll(); slide != nil || err != nil {
				t.Errorf("expected nothing ready, got %v, %v", slide, err)
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Poll blocked while the worker was preparing")
	}
	if e.State() != SlotPreparing {
		t.Errorf("expected Preparing, got %v", e.State())
	}

	prep.gate <- struct{}{}
	if next := pollUntil(t, e); next.Path != "b.png" {
		t.Errorf("expected b.png, got %s", next.Path)
	}
	close(prep.gate)
}

func TestEngine_AllFilesFailed(t *testing.T) {
	list := fakePlaylist{"a.png", "b.png", "c.png"}
	prep := &fakePreparer{bad: map[string]bool{"a.png": true, "b.png": true, "c.png": true}}
	e := startEngine(t, list, prep)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	slide, err := e.Await(ctx)
	if slide != nil {
		t.Fatalf("expected no slide, got %v", slide.Path)
	}
	if !errors.Is(err, domain.ErrAllFilesFailed) {
		t.Fatalf("expected ErrAllFilesFailed, got %v", err)
	}
	if _, err := e.Poll(); !errors.Is(err, domain.ErrAllFilesFailed) {
		t.Errorf("expected failure to be sticky, got %v", err)
	}
	if n := prep.callCount(); n != 3 {
		t.Errorf("expected one attempt per file, got %d", n)
	}
}

func TestEngine_Rewind(t *testing.T) {
	list := fakePlaylist{"a.png", "b.png", "c.png", "d.png"}
	prep := &fakePreparer{bad: map[string]bool{"d.png": true}}
	e := startEngine(t, list, prep)

	if first := awaitFirst(t, e); first.Path != "a.png" {
		t.Fatalf("expected a.png first, got %s", first.Path)
	}
	waitForState(t, e, SlotReady) // b.png is ready

	// Previous from a.png wraps backwards over the corrupt d.png
	e.Rewind()
	if prev := pollUntil(t, e); prev.Path != "c.png" {
		t.Fatalf("expected c.png after rewind, got %s", prev.Path)
	}

	// Forward playback resumes from the rewound position
	if next := pollUntil(t, e); next.Path != "a.png" {
		t.Errorf("expected a.png after c.png, got %s", next.Path)
	}
}

func TestEngine_ForwardCancelsRewind(t *testing.T) {
	list := fakePlaylist{"a.png", "b.png", "c.png"}
	prep := &fakePreparer{}
	e := startEngine(t, list, prep)

	awaitFirst(t, e)
	waitForState(t, e, SlotReady) // b.png is ready

	// Forward while already looking ahead keeps the ready slide
	before := prep.callCount()
	e.Forward()
	if e.State() != SlotReady || prep.callCount() != before {
		t.Fatalf("expected forward to be a no-op, got state %v", e.State())
	}

	e.Rewind()
	e.Forward()
	if next := pollUntil(t, e); next.Path != "b.png" {
		t.Errorf("expected b.png after previous then next, got %s", next.Path)
	}
}

func TestEngine_SingleImagePreparedOnce(t *testing.T) {
	prep := &fakePreparer{}
	e := startEngine(t, fakePlaylist{"only.png"}, prep)

	awaitFirst(t, e)
	time.Sleep(50 * time.Millisecond)

	if slide, err := e.Poll(); slide != nil || err != nil {
		t.Errorf("expected nothing to swap in, got %v, %v", slide, err)
	}
	e.Rewind()
	if n := prep.callCount(); n != 1 {
		t.Errorf("expected a single preparation, got %d", n)
	}
}

func TestEngine_Resize(t *testing.T) {
	prep := &fakePreparer{}
	e := startEngine(t, fakePlaylist{"a.png", "b.png"}, prep)

	awaitFirst(t, e)
	waitForState(t, e, SlotReady)

	resized := domain.ScreenResolution{Width: 1280, Height: 720}
	e.Resize(resized)

	if e.Resolution() != resized {
		t.Fatalf("expected resolution %v, got %v", resized, e.Resolution())
	}
	next := pollUntil(t, e)
	if next.Path != "b.png" {
		t.Errorf("expected b.png to be re-prepared, got %s", next.Path)
	}
	if next.Target != resized {
		t.Errorf("expected slide prepared for %v, got %v", resized, next.Target)
	}

	// Invalid and unchanged sizes are ignored
	waitForState(t, e, SlotReady)
	before := prep.callCount()
	e.Resize(domain.ScreenResolution{Width: 0, Height: 720})
	e.Resize(resized)
	time.Sleep(50 * time.Millisecond)
	if e.State() != SlotReady {
		t.Errorf("expected the ready slide to survive, got %v", e.State())
	}
	if n := prep.callCount(); n != before {
		t.Errorf("expected no extra preparation, got %d more", n-before)
	}
}

func TestEngine_StopDiscardsInFlight(t *testing.T) {
	prep := &fakePreparer{gate: make(chan struct{})}
	e := NewEngine(zap.NewNop(), fakePlaylist{"a.png", "b.png"}, prep, testRes)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Wait until the worker is inside Prepare
	deadline := time.Now().Add(2 * time.Second)
	for prep.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Timeout: worker never started preparing")
		}
		time.Sleep(time.Millisecond)
	}

	stopped := make(chan error, 1)
	go func() { stopped <- e.Stop(context.Background()) }()

	select {
	case err := <-stopped:
		t.Fatalf("Stop returned before the in-flight preparation finished: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	close(prep.gate)
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("stop failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout: Stop did not return")
	}

	if slide, _ := e.Poll(); slide != nil {
		t.Errorf("expected in-flight slide to be discarded, got %s", slide.Path)
	}
	if e.State() != SlotEmpty {
		t.Errorf("expected Empty after stop, got %v", e.State())
	}
}

func TestEngine_StopTimeout(t *testing.T) {
	prep := &fakePreparer{gate: make(chan struct{})}
	e := NewEngine(zap.NewNop(), fakePlaylist{"a.png"}, prep, testRes)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer close(prep.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := e.Stop(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestEngine_AwaitContextCancelled(t *testing.T) {
	prep := &fakePreparer{gate: make(chan struct{})}
	e := startEngine(t, fakePlaylist{"a.png"}, prep)
	defer close(prep.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := e.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestEngine_StartEmptyPlaylist(t *testing.T) {
	e := NewEngine(zap.NewNop(), fakePlaylist{}, &fakePreparer{}, testRes)
	if err := e.Start(context.Background()); !errors.Is(err, domain.ErrEmptyPlaylist) {
		t.Fatalf("expected ErrEmptyPlaylist, got %v", err)
	}
	if err := e.Stop(context.Background()); err != nil {
		t.Errorf("stop on a never-started engine should be a no-op, got %v", err)
	}
}
