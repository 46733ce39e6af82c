package shell

import (
	"context"
	"io"

	"github.com/wanggangzero/RoslynPad/internal/settings"
	"github.com/wanggangzero/RoslynPad/internal/window"
)

// DocumentID identifies an open document. The dock widget uses it as the
// pane's content id; the view-model uses it to find its document.
type DocumentID string

// ViewModel is the lifecycle contract the shell needs from the main
// view-model. Everything else about the view-model is opaque to the shell.
type ViewModel interface {
	// Initialize runs once after the window is first laid out.
	Initialize(ctx context.Context) error
	// OnExit runs the application's cleanup. It may block.
	OnExit() error
	// CloseDocument decides whether the document closes (it may prompt
	// to save). closed reports the decision.
	CloseDocument(ctx context.Context, id DocumentID) (closed bool, err error)
	// Settings returns the settings store the shell persists layout into.
	Settings() *settings.Settings
	// LastError returns the last unhandled application error, if any.
	LastError() error
}

// Window is the toolkit window the shell controls.
type Window interface {
	Bounds() window.Rect
	SetBounds(r window.Rect)
	// RestoreBounds returns the bounds the window has in the Normal state,
	// even while maximized or minimized.
	RestoreBounds() window.Rect
	State() window.State
	SetState(s window.State)
	SetFontSize(size float64)
	SetEnabled(enabled bool)
	// Close requests a close. The toolkit calls Shell.OnClosing before
	// closing, and Shell.OnClosed if the request is not canceled.
	Close()
}

// DockWidget is the docking manager as seen by the shell: its serializer
// and the ability to drop a document pane.
type DockWidget interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
	RemoveDocument(contentID string) bool
}

// Dispatcher runs functions on the UI thread.
type Dispatcher interface {
	Dispatch(fn func())
}
