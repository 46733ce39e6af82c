package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wailsapp/wails/v2/pkg/options"

	"github.com/wanggangzero/RoslynPad/internal/window"
)

func TestWindowBeforeStart(t *testing.T) {
	rt := stubRuntime(t)
	w := newWailsWindow(nil)

	width, height, state := w.startOptions()
	assert.Equal(t, defaultWidth, width)
	assert.Equal(t, defaultHeight, height)
	assert.Equal(t, options.Normal, state)

	w.SetBounds(window.Rect{Left: 10, Top: 20, Width: 800.4, Height: 600.6})
	w.SetState(window.Maximized)
	w.SetFontSize(15)
	w.Close()

	width, height, state = w.startOptions()
	assert.Equal(t, 800, width)
	assert.Equal(t, 601, height)
	assert.Equal(t, options.Maximised, state)
	assert.Equal(t, window.Maximized, w.State())
	assert.Equal(t, window.Rect{Left: 10, Top: 20, Width: 800.4, Height: 600.6}, w.RestoreBounds())

	assert.Zero(t, rt.quitCount())
	assert.Empty(t, rt.events)
}

func TestWindowAttachAppliesPosition(t *testing.T) {
	rt := stubRuntime(t)

	fresh := newWailsWindow(nil)
	fresh.attach(context.Background())
	assert.Empty(t, rt.positions, "default placement is left to the toolkit")

	w := newWailsWindow(nil)
	w.SetBounds(window.Rect{Left: 40, Top: 50, Width: 800, Height: 600})
	w.attach(context.Background())
	assert.Equal(t, [][2]int{{40, 50}}, rt.positions)
}

func TestWindowRestoreBoundsWhileMaximized(t *testing.T) {
	rt := stubRuntime(t)
	w := newWailsWindow(nil)
	w.attach(context.Background())

	rt.set(func() { rt.x, rt.y, rt.w, rt.h = 100, 110, 900, 700 })
	assert.Equal(t, window.Rect{Left: 100, Top: 110, Width: 900, Height: 700}, w.RestoreBounds())

	w.SetState(window.Maximized)
	rt.set(func() { rt.x, rt.y, rt.w, rt.h = 0, 0, 1920, 1080 })

	assert.Equal(t, window.Maximized, w.State())
	assert.Equal(t, window.Rect{Left: 0, Top: 0, Width: 1920, Height: 1080}, w.Bounds())
	assert.Equal(t, window.Rect{Left: 100, Top: 110, Width: 900, Height: 700}, w.RestoreBounds())

	w.SetState(window.Normal)
	assert.Equal(t, window.Normal, w.State())
}

func TestWindowEmitsFrontendState(t *testing.T) {
	rt := stubRuntime(t)
	w := newWailsWindow(nil)
	w.SetFontSize(16)
	w.attach(context.Background())

	w.sync()
	w.SetEnabled(false)

	sizes := rt.eventsNamed(eventFontSize)
	if assert.Len(t, sizes, 1) {
		assert.Equal(t, []interface{}{16.0}, sizes[0].data)
	}
	enabled := rt.eventsNamed(eventEnabled)
	if assert.Len(t, enabled, 2) {
		assert.Equal(t, []interface{}{true}, enabled[0].data)
		assert.Equal(t, []interface{}{false}, enabled[1].data)
	}
}

func TestWindowCloseQuits(t *testing.T) {
	rt := stubRuntime(t)
	w := newWailsWindow(nil)
	w.attach(context.Background())

	w.Close()
	assert.Equal(t, 1, rt.quitCount())
}
