package main

import (
	"context"
	"sync"
	"testing"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

type emitted struct {
	name string
	data []interface{}
}

// fakeRuntime stands in for the Wails runtime.
type fakeRuntime struct {
	mu        sync.Mutex
	x, y      int
	w, h      int
	maximised bool
	minimised bool
	positions [][2]int
	events    []emitted
	quits     int
	onQuit    func()
	answer    string
	dialogs   []runtime.MessageDialogOptions
	urls      []string
	openPath  string
	savePath  string
}

func stubRuntime(t *testing.T) *fakeRuntime {
	t.Helper()
	rt := &fakeRuntime{w: 1024, h: 768}

	origGetPosition, origGetSize := windowGetPosition, windowGetSize
	origSetPosition, origSetSize := windowSetPosition, windowSetSize
	origIsMaximised, origIsMinimised := windowIsMaximised, windowIsMinimised
	origMaximise, origUnmaximise := windowMaximise, windowUnmaximise
	origMinimise, origUnminimise := windowMinimise, windowUnminimise
	origEmit, origQuit, origDialog := eventsEmit, quit, messageDialog
	origURL, origOpen, origSave := browserOpenURL, openFileDialog, saveFileDialog
	t.Cleanup(func() {
		windowGetPosition, windowGetSize = origGetPosition, origGetSize
		windowSetPosition, windowSetSize = origSetPosition, origSetSize
		windowIsMaximised, windowIsMinimised = origIsMaximised, origIsMinimised
		windowMaximise, windowUnmaximise = origMaximise, origUnmaximise
		windowMinimise, windowUnminimise = origMinimise, origUnminimise
		eventsEmit, quit, messageDialog = origEmit, origQuit, origDialog
		browserOpenURL, openFileDialog, saveFileDialog = origURL, origOpen, origSave
	})

	windowGetPosition = func(ctx context.Context) (int, int) {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return rt.x, rt.y
	}
	windowGetSize = func(ctx context.Context) (int, int) {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return rt.w, rt.h
	}
	windowSetPosition = func(ctx context.Context, x, y int) {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		rt.x, rt.y = x, y
		rt.positions = append(rt.positions, [2]int{x, y})
	}
	windowSetSize = func(ctx context.Context, w, h int) {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		rt.w, rt.h = w, h
	}
	windowIsMaximised = func(ctx context.Context) bool {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return rt.maximised
	}
	windowIsMinimised = func(ctx context.Context) bool {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return rt.minimised
	}
	windowMaximise = func(ctx context.Context) { rt.set(func() { rt.maximised, rt.minimised = true, false }) }
	windowUnmaximise = func(ctx context.Context) { rt.set(func() { rt.maximised = false }) }
	windowMinimise = func(ctx context.Context) { rt.set(func() { rt.minimised = true }) }
	windowUnminimise = func(ctx context.Context) { rt.set(func() { rt.minimised = false }) }
	eventsEmit = func(ctx context.Context, name string, data ...interface{}) {
		rt.set(func() { rt.events = append(rt.events, emitted{name: name, data: data}) })
	}
	quit = func(ctx context.Context) {
		rt.mu.Lock()
		rt.quits++
		fn := rt.onQuit
		rt.mu.Unlock()
		if fn != nil {
			fn()
		}
	}
	messageDialog = func(ctx context.Context, opts runtime.MessageDialogOptions) (string, error) {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		rt.dialogs = append(rt.dialogs, opts)
		return rt.answer, nil
	}
	browserOpenURL = func(ctx context.Context, url string) {
		rt.set(func() { rt.urls = append(rt.urls, url) })
	}
	openFileDialog = func(ctx context.Context, opts runtime.OpenDialogOptions) (string, error) {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return rt.openPath, nil
	}
	saveFileDialog = func(ctx context.Context, opts runtime.SaveDialogOptions) (string, error) {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return rt.savePath, nil
	}
	return rt
}

func (rt *fakeRuntime) set(fn func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	fn()
}

func (rt *fakeRuntime) eventsNamed(name string) []emitted {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	var out []emitted
	for _, e := range rt.events {
		if e.name == name {
			out = append(out, e)
		}
	}
	return out
}

func (rt *fakeRuntime) quitCount() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.quits
}
