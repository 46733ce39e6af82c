package shell

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wanggangzero/RoslynPad/internal/dock"
	"github.com/wanggangzero/RoslynPad/internal/settings"
	"github.com/wanggangzero/RoslynPad/internal/window"
)

// fakeWindow records what the shell does to it. Close behaves like a
// toolkit: it asks the shell, then closes unless canceled.
type fakeWindow struct {
	mu             sync.Mutex
	bounds         window.Rect
	restoreBounds  window.Rect
	state          window.State
	fontSize       float64
	enabled        bool
	closed         bool
	closeCalls     int
	setBoundsCalls int
	setStateCalls  int
	shell          *Shell
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{
		bounds:        window.Rect{Left: 50, Top: 50, Width: 1024, Height: 768},
		restoreBounds: window.Rect{Left: 50, Top: 50, Width: 1024, Height: 768},
		fontSize:      12,
		enabled:       true,
	}
}

func (w *fakeWindow) Bounds() window.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bounds
}

func (w *fakeWindow) SetBounds(r window.Rect) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bounds = r
	w.restoreBounds = r
	w.setBoundsCalls++
}

func (w *fakeWindow) RestoreBounds() window.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.restoreBounds
}

func (w *fakeWindow) State() window.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *fakeWindow) SetState(s window.State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = s
	w.setStateCalls++
}

func (w *fakeWindow) SetFontSize(size float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fontSize = size
}

func (w *fakeWindow) SetEnabled(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enabled = enabled
}

func (w *fakeWindow) Close() {
	w.mu.Lock()
	w.closeCalls++
	sh := w.shell
	w.mu.Unlock()

	if sh.OnClosing() {
		return
	}

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	sh.OnClosed()
}

func (w *fakeWindow) isEnabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enabled
}

func (w *fakeWindow) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// fakeViewModel is a scriptable view-model.
type fakeViewModel struct {
	settings *settings.Settings

	initCalls  atomic.Int32
	exitCalls  atomic.Int32
	exitStart  chan struct{}
	exitBlock  chan struct{}
	exitErr    error
	exitPanics bool

	// snapshot of settings taken when OnExit starts
	mu            sync.Mutex
	boundsAtExit  string
	layoutAtExit  string
	closeDecision map[DocumentID]bool
	closeErr      error
	closeBlock    chan struct{}
	closeCalls    []DocumentID
}

func newFakeViewModel() *fakeViewModel {
	return &fakeViewModel{
		settings:      settings.New(),
		exitStart:     make(chan struct{}, 10),
		closeDecision: map[DocumentID]bool{},
	}
}

func (vm *fakeViewModel) Initialize(ctx context.Context) error {
	vm.initCalls.Add(1)
	return nil
}

func (vm *fakeViewModel) OnExit() error {
	vm.mu.Lock()
	vm.boundsAtExit = vm.settings.WindowBounds()
	vm.layoutAtExit = vm.settings.DockLayout()
	vm.mu.Unlock()

	vm.exitCalls.Add(1)
	vm.exitStart <- struct{}{}
	if vm.exitBlock != nil {
		<-vm.exitBlock
	}
	if vm.exitPanics {
		panic("cleanup exploded")
	}
	return vm.exitErr
}

func (vm *fakeViewModel) CloseDocument(ctx context.Context, id DocumentID) (bool, error) {
	vm.mu.Lock()
	vm.closeCalls = append(vm.closeCalls, id)
	block := vm.closeBlock
	decision := vm.closeDecision[id]
	err := vm.closeErr
	vm.mu.Unlock()

	if block != nil {
		<-block
	}
	return decision, err
}

func (vm *fakeViewModel) Settings() *settings.Settings { return vm.settings }

func (vm *fakeViewModel) LastError() error { return nil }

// failingDock fails every operation.
type failingDock struct{}

func (failingDock) Serialize(w io.Writer) error { return errors.New("serialize failed") }
func (failingDock) Deserialize(r io.Reader) error { return errors.New("deserialize failed") }
func (failingDock) RemoveDocument(id string) bool { return false }

// panickingDock panics on deserialize.
type panickingDock struct{ *dock.Manager }

func (panickingDock) Deserialize(r io.Reader) error { panic("bad widget") }

// recordingDock counts deserialize attempts.
type recordingDock struct {
	*dock.Manager
	deserializeCalls int
}

func (d *recordingDock) Deserialize(r io.Reader) error {
	d.deserializeCalls++
	return d.Manager.Deserialize(r)
}

// harness wires a Shell to fakes and a running UI loop.
type harness struct {
	t      *testing.T
	shell  *Shell
	win    *fakeWindow
	vm     *fakeViewModel
	dock   *dock.Manager
	loop   *Loop
	exits  atomic.Int32
	exited chan struct{}
}

func newHarness(t *testing.T, vm *fakeViewModel, opts ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		win:    newFakeWindow(),
		vm:     vm,
		dock:   dock.NewManager(nil),
		exited: make(chan struct{}, 10),
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h.loop = NewLoop(nil)
	go h.loop.Run(ctx)

	o := Options{
		ViewModel: vm,
		Window:    h.win,
		Dock:      h.dock,
		UI:        h.loop,
		Exit: func() {
			h.exits.Add(1)
			h.exited <- struct{}{}
		},
	}
	for _, fn := range opts {
		fn(&o)
	}

	sh, err := New(o)
	require.NoError(t, err)
	h.shell = sh
	h.win.shell = sh
	return h
}

// onUI runs fn on the UI loop and waits for it.
func (h *harness) onUI(fn func()) {
	h.t.Helper()
	done := make(chan struct{})
	h.loop.Dispatch(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		h.t.Fatal("UI loop did not run task")
	}
}

// waitExit waits for the process exit capability to be invoked.
func (h *harness) waitExit() {
	h.t.Helper()
	select {
	case <-h.exited:
	case <-time.After(2 * time.Second):
		h.t.Fatal("process exit was not requested")
	}
}

func (h *harness) waitExitStart() {
	h.t.Helper()
	select {
	case <-h.vm.exitStart:
	case <-time.After(2 * time.Second):
		h.t.Fatal("cleanup did not start")
	}
}

func hasFloatingWindows(text string) bool {
	return strings.Contains(text, "FloatingWindows")
}
