package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/genricoloni/artshow/internal/domain"
	"github.com/genricoloni/artshow/internal/playlist"
	"go.uber.org/zap"
)

// request asks the worker to prepare the slide at index, moving by step on failure
type request struct {
	index int
	step  int
	gen   uint64
	res   domain.ScreenResolution
}

// Engine is the preload pipeline. A single worker goroutine prepares the slide
// after the one on screen and hands it over through a one-slot mailbox.
// Nothing past the slot is prepared until the display loop takes it.
type Engine struct {
	logger   *zap.Logger
	playlist domain.Playlist
	preparer domain.Preparer
	slot     *Slot
	requests chan request

	mu        sync.Mutex
	res       domain.ScreenResolution
	displayed int // playlist index on screen, -1 before the first pickup
	target    int // index of the pending request
	step      int
	gen       uint64
	started   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewEngine creates a new preload engine
func NewEngine(
	logger *zap.Logger,
	list domain.Playlist,
	prep domain.Preparer,
	res *domain.ScreenResolution,
) *Engine {
	return &Engine{
		logger:    logger,
		playlist:  list,
		preparer:  prep,
		slot:      NewSlot(),
		requests:  make(chan request, 1),
		res:       *res,
		displayed: -1,
		step:      1,
	}
}

// Start launches the worker and requests the first playlist entry.
// It returns immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}
	if e.playlist.Len() == 0 {
		return domain.ErrEmptyPlaylist
	}

	// The worker outlives the start context, Stop cancels it
	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.cancel = cancel
	e.done = make(chan struct{})
	e.started = true

	e.logger.Info("Preload engine starting...",
		zap.Int("images", e.playlist.Len()),
		zap.Int("width", e.res.Width),
		zap.Int("height", e.res.Height))

	go e.runLoop(workerCtx)
	e.schedule(0, 1)
	return nil
}

// runLoop processes one request at a time until the context is cancelled
func (e *Engine) runLoop(ctx context.Context) {
	defer close(e.done)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Preload worker stopped")
			return
		case req := <-e.requests:
			e.prepare(ctx, req)
		}
	}
}

// prepare walks the playlist from req.index until a slide succeeds. Bad files are
// skipped; a full lap of failures is terminal.
func (e *Engine) prepare(ctx context.Context, req request) {
	n := e.playlist.Len()
	idx := playlist.Wrap(req.index, n)

	for attempt := 0; attempt < n; attempt++ {
		if ctx.Err() != nil || e.slot.Generation() != req.gen {
			e.logger.Debug("Preparation superseded", zap.Int("index", idx))
			return
		}

		path := e.playlist.At(idx)
		slide, err := e.preparer.Prepare(ctx, path, req.res)
		if err == nil {
			slide.Index = idx
			if e.slot.Publish(slide, req.gen) {
				e.logger.Debug("Slide ready",
					zap.String("id", slide.ID),
					zap.Int("index", idx),
					zap.String("path", path))
			} else {
				e.logger.Debug("Discarding stale slide",
					zap.String("id", slide.ID),
					zap.String("path", path))
			}
			return
		}

		if ctx.Err() != nil {
			return
		}

		e.logger.Warn("Skipping image",
			zap.String("path", path),
			zap.Error(err))
		idx = playlist.Wrap(idx+req.step, n)
	}

	err := fmt.Errorf("%w: all %d files in the playlist failed", domain.ErrAllFilesFailed, n)
	if e.slot.Fail(err, req.gen) {
		e.logger.Error("Slideshow cannot continue", zap.Error(err))
	}
}

// schedule replaces any pending request with one for index. Caller holds mu.
func (e *Engine) schedule(index, step int) {
	e.gen++
	e.target = playlist.Wrap(index, e.playlist.Len())
	e.step = step
	e.slot.Reset(e.gen)

	// Drop a queued request that was not picked up yet
	select {
	case <-e.requests:
	default:
	}
	// Cannot block: only schedule sends, under mu, after draining
	e.requests <- request{index: e.target, step: step, gen: e.gen, res: e.res}
}

// Poll takes the ready slide without blocking. It returns (nil, nil) when the
// next slide is not ready yet and domain.ErrAllFilesFailed once nothing can be shown.
func (e *Engine) Poll() (*domain.Slide, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	slide, err := e.slot.TryTake()
	if err != nil || slide == nil {
		return nil, err
	}

	e.displayed = slide.Index
	if e.playlist.Len() > 1 {
		e.schedule(slide.Index+1, 1)
	}
	return slide, nil
}

// Await blocks until a slide is ready, the slot fails, or ctx is done.
// Used for the first slide, before the display loop exists.
func (e *Engine) Await(ctx context.Context) (*domain.Slide, error) {
	for {
		slide, err := e.Poll()
		if err != nil || slide != nil {
			return slide, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-e.slot.Changed():
		}
	}
}

// Rewind retargets the look-ahead to the entry before the displayed one,
// walking backwards over bad files. A ready slide is dropped.
func (e *Engine) Rewind() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.displayed < 0 || e.playlist.Len() < 2 {
		return
	}
	e.logger.Debug("Rewinding", zap.Int("from", e.displayed))
	e.schedule(e.displayed-1, -1)
}

// Forward retargets the look-ahead to the entry after the displayed one. It undoes
// a Rewind whose slide has not been taken yet.
func (e *Engine) Forward() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.displayed < 0 || e.playlist.Len() < 2 || e.step > 0 {
		return
	}
	e.logger.Debug("Resuming forward", zap.Int("from", e.displayed))
	e.schedule(e.displayed+1, 1)
}

// Resize records a new display size and re-prepares the pending slide for it
func (e *Engine) Resize(res domain.ScreenResolution) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !res.Valid() || res == e.res {
		return
	}

	e.logger.Info("Display resized",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))
	e.res = res

	if e.started {
		e.schedule(e.target, e.step)
	}
}

// Resolution returns the size slides are currently prepared for
func (e *Engine) Resolution() domain.ScreenResolution {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.res
}

// State returns the handoff slot state
func (e *Engine) State() SlotState {
	return e.slot.State()
}

// Stop cancels the worker and waits for it. An in-flight preparation runs to
// completion and is discarded.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return nil
	}
	e.started = false
	e.cancel()
	done := e.done
	e.mu.Unlock()

	e.logger.Info("Preload engine stopping...")

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for preload worker: %w", ctx.Err())
	}

	e.slot.Clear()
	return nil
}
