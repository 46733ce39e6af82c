package main

import (
	"context"
	"math"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/options"
	"go.uber.org/zap"

	"github.com/wanggangzero/RoslynPad/internal/shell"
	"github.com/wanggangzero/RoslynPad/internal/window"
)

// Window size used when nothing is persisted.
const (
	defaultWidth  = 1024
	defaultHeight = 768
)

// wailsWindow adapts the Wails main window to shell.Window. Before the
// runtime starts, values are kept and handed to options.App; afterwards
// calls go to the runtime.
type wailsWindow struct {
	mu        sync.Mutex
	ctx       context.Context
	restore   window.Rect // last bounds seen in the Normal state
	boundsSet bool
	state     window.State
	fontSize  float64
	enabled   bool
	log       *zap.Logger
}

var _ shell.Window = (*wailsWindow)(nil)

func newWailsWindow(log *zap.Logger) *wailsWindow {
	if log == nil {
		log = zap.NewNop()
	}
	return &wailsWindow{
		restore: window.Rect{Width: defaultWidth, Height: defaultHeight},
		enabled: true,
		log:     log.Named("window"),
	}
}

// startOptions returns the pre-show size and state for options.App.
func (w *wailsWindow) startOptions() (width, height int, state options.WindowStartState) {
	w.mu.Lock()
	defer w.mu.Unlock()

	width, height = round(w.restore.Width), round(w.restore.Height)
	state = options.Normal
	if w.state == window.Maximized {
		state = options.Maximised
	}
	return width, height, state
}

// attach switches the window to the live runtime and applies the
// persisted position, which options.App cannot carry.
func (w *wailsWindow) attach(ctx context.Context) {
	w.mu.Lock()
	w.ctx = ctx
	r, set := w.restore, w.boundsSet
	w.mu.Unlock()

	if set {
		windowSetPosition(ctx, round(r.Left), round(r.Top))
	}
}

// sync re-emits frontend state set before the DOM existed.
func (w *wailsWindow) sync() {
	w.mu.Lock()
	size, enabled := w.fontSize, w.enabled
	w.mu.Unlock()

	if size > 0 {
		w.emit(eventFontSize, size)
	}
	w.emit(eventEnabled, enabled)
}

func (w *wailsWindow) context() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx
}

func (w *wailsWindow) emit(name string, data ...interface{}) {
	if ctx := w.context(); ctx != nil {
		eventsEmit(ctx, name, data...)
	}
}

func (w *wailsWindow) query(ctx context.Context) window.Rect {
	x, y := windowGetPosition(ctx)
	width, height := windowGetSize(ctx)
	return window.Rect{Left: float64(x), Top: float64(y), Width: float64(width), Height: float64(height)}
}

// track records the current bounds as restore bounds when the window is
// in the Normal state.
func (w *wailsWindow) track() {
	ctx := w.context()
	if ctx == nil || windowIsMaximised(ctx) || windowIsMinimised(ctx) {
		return
	}
	r := w.query(ctx)
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	w.mu.Lock()
	w.restore = r
	w.mu.Unlock()
}

func (w *wailsWindow) Bounds() window.Rect {
	if ctx := w.context(); ctx != nil {
		return w.query(ctx)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.restore
}

func (w *wailsWindow) SetBounds(r window.Rect) {
	w.mu.Lock()
	w.restore = r
	w.boundsSet = true
	ctx := w.ctx
	w.mu.Unlock()

	if ctx != nil {
		windowSetPosition(ctx, round(r.Left), round(r.Top))
		windowSetSize(ctx, round(r.Width), round(r.Height))
	}
}

func (w *wailsWindow) RestoreBounds() window.Rect {
	w.track()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.restore
}

func (w *wailsWindow) State() window.State {
	ctx := w.context()
	if ctx == nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.state
	}
	switch {
	case windowIsMaximised(ctx):
		return window.Maximized
	case windowIsMinimised(ctx):
		return window.Minimized
	}
	return window.Normal
}

func (w *wailsWindow) SetState(s window.State) {
	w.track()

	w.mu.Lock()
	w.state = s
	ctx := w.ctx
	w.mu.Unlock()

	if ctx == nil {
		return
	}
	switch s {
	case window.Maximized:
		windowMaximise(ctx)
	case window.Minimized:
		windowMinimise(ctx)
	default:
		windowUnminimise(ctx)
		windowUnmaximise(ctx)
	}
}

func (w *wailsWindow) SetFontSize(size float64) {
	w.mu.Lock()
	w.fontSize = size
	w.mu.Unlock()
	w.emit(eventFontSize, size)
}

func (w *wailsWindow) SetEnabled(enabled bool) {
	w.mu.Lock()
	w.enabled = enabled
	w.mu.Unlock()
	w.emit(eventEnabled, enabled)
}

// Close asks the runtime to quit, which goes through OnBeforeClose.
func (w *wailsWindow) Close() {
	ctx := w.context()
	if ctx == nil {
		w.log.Warn("close requested before the window started")
		return
	}
	quit(ctx)
}

func round(v float64) int {
	return int(math.Round(v))
}
