package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"github.com/wanggangzero/RoslynPad/internal/composition"
	"github.com/wanggangzero/RoslynPad/internal/dock"
	"github.com/wanggangzero/RoslynPad/internal/editor"
	"github.com/wanggangzero/RoslynPad/internal/settings"
	"github.com/wanggangzero/RoslynPad/internal/shell"
)

// Version is set at build time via ldflags.
var Version = "0.1.0-dev"

// UpdateURL is the page opened by OpenUpdatePage.
const UpdateURL = "https://roslynpad.net/"

// scriptFilters is offered by the open and save dialogs.
var scriptFilters = []runtime.FileFilter{
	{DisplayName: "C# Scripts (*.csx)", Pattern: "*.csx"},
	{DisplayName: "All Files", Pattern: "*.*"},
}

// App is bound to the frontend. Its exported methods are the frontend API.
type App struct {
	mu       sync.Mutex
	ctx      context.Context
	log      *zap.Logger
	window   *wailsWindow
	shell    *shell.Shell
	editor   *editor.MainViewModel
	dock     *dock.Manager
	settings *settings.Settings
}

// NewApp creates the app around the main window adapter.
func NewApp(win *wailsWindow, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{window: win, log: log.Named("app")}
}

// bind attaches the resolved services.
func (a *App) bind(svc *composition.Services) {
	a.editor = svc.Editor
	a.dock = svc.Dock
	a.settings = svc.Settings
}

// prompter is a composition constructor for the save prompt.
func (a *App) prompter() editor.Prompter {
	return dialogPrompter{app: a}
}

// startup is called when the app starts.
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
	a.window.attach(ctx)
	a.dock.OnChange(func(l *dock.Layout) {
		eventsEmit(ctx, eventDockLayout, l)
	})
}

// context returns the runtime context, nil before startup. Bindings and
// the save prompter read it from other goroutines.
func (a *App) context() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// domReady runs after the first layout pass.
func (a *App) domReady(ctx context.Context) {
	a.window.sync()
	a.shell.OnLoaded()
}

// beforeClose reports whether to prevent the window from closing.
func (a *App) beforeClose(ctx context.Context) (prevent bool) {
	return a.shell.OnClosing()
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	a.shell.OnClosed()
}

// GetVersion returns the application version.
func (a *App) GetVersion() string {
	return Version
}

// ListDocuments returns the open documents in opening order.
func (a *App) ListDocuments() []editor.Document {
	return a.editor.Documents()
}

// NewDocument opens an empty document.
func (a *App) NewDocument() editor.Document {
	return a.editor.NewDocument()
}

// OpenDocument opens the script at path.
func (a *App) OpenDocument(path string) (editor.Document, error) {
	return a.editor.OpenFile(path)
}

// OpenDocumentDialog asks for a script and opens it. Returns nil when
// the dialog is dismissed.
func (a *App) OpenDocumentDialog() (*editor.Document, error) {
	ctx := a.context()
	if ctx == nil {
		return nil, errors.New("window not started")
	}
	path, err := openFileDialog(ctx, runtime.OpenDialogOptions{
		Title:   "Open Script",
		Filters: scriptFilters,
	})
	if err != nil {
		return nil, fmt.Errorf("open dialog failed: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	doc, err := a.editor.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDocument stores the editor text of a document.
func (a *App) UpdateDocument(id, text string) error {
	return a.editor.UpdateText(shell.DocumentID(id), text)
}

// SaveDocument saves a document, asking for a path when it has none.
// Returns false when the dialog is dismissed.
func (a *App) SaveDocument(id string) (bool, error) {
	err := a.editor.SaveDocument(shell.DocumentID(id))
	if !errors.Is(err, editor.ErrNoPath) {
		return err == nil, err
	}
	return a.SaveDocumentAs(id)
}

// SaveDocumentAs asks for a path and saves the document there. Returns
// false when the dialog is dismissed.
func (a *App) SaveDocumentAs(id string) (bool, error) {
	doc, ok := a.editor.Document(shell.DocumentID(id))
	if !ok {
		return false, fmt.Errorf("%w: %s", editor.ErrDocumentNotFound, id)
	}
	ctx := a.context()
	if ctx == nil {
		return false, errors.New("window not started")
	}
	path, err := saveFileDialog(ctx, runtime.SaveDialogOptions{
		Title:           "Save Script",
		DefaultFilename: doc.Title,
		Filters:         scriptFilters,
	})
	if err != nil {
		return false, fmt.Errorf("save dialog failed: %w", err)
	}
	if path == "" {
		return false, nil
	}
	if err := a.editor.SaveDocumentAs(doc.ID, path); err != nil {
		return false, err
	}
	return true, nil
}

// CloseDocument handles a document tab close gesture. The tab stays until
// the view-model agrees; the frontend learns the outcome from dock:layout.
func (a *App) CloseDocument(id string) {
	a.shell.OnDocumentClosing(shell.DocumentID(id))
}

// GetDockLayout returns the current dock arrangement.
func (a *App) GetDockLayout() *dock.Layout {
	return a.dock.Layout()
}

// SyncDockLayout stores an arrangement changed by the user in the frontend.
func (a *App) SyncDockLayout(l *dock.Layout) error {
	return a.dock.Apply(l)
}

// NotifyWindowChanged is called by the frontend on resize so the last
// Normal-state bounds are known when the window is maximized.
func (a *App) NotifyWindowChanged() {
	a.window.track()
}

// GetEditorFontSize returns the editor font size.
func (a *App) GetEditorFontSize() int {
	return a.settings.EditorFontSize()
}

// SetEditorFontSize sets the editor font size and returns the stored
// (clamped) value.
func (a *App) SetEditorFontSize(size int) int {
	a.settings.SetEditorFontSize(size)
	return a.settings.EditorFontSize()
}

// GetTheme returns the color theme: dark, light or auto.
func (a *App) GetTheme() string {
	return a.settings.Theme()
}

// SetTheme sets the color theme and returns the stored value.
func (a *App) SetTheme(theme string) string {
	a.settings.SetTheme(theme)
	return a.settings.Theme()
}

// GetEffectiveTheme returns the theme to render: dark or light.
func (a *App) GetEffectiveTheme() string {
	return a.settings.EffectiveTheme()
}

// ReportError records an error raised by the frontend.
func (a *App) ReportError(message string) {
	if message == "" {
		return
	}
	a.editor.ReportError(errors.New(message))
	if ctx := a.context(); ctx != nil {
		eventsEmit(ctx, eventError, message)
	}
}

// ViewErrorDetails shows the last unhandled error. Does nothing when
// there is none.
func (a *App) ViewErrorDetails() {
	err := a.editor.LastError()
	ctx := a.context()
	if err == nil || ctx == nil {
		return
	}
	if _, dlgErr := messageDialog(ctx, runtime.MessageDialogOptions{
		Type:    runtime.ErrorDialog,
		Title:   "Unhandled Exception",
		Message: err.Error(),
	}); dlgErr != nil {
		a.log.Warn("failed to show error details", zap.Error(dlgErr))
	}
}

// OpenUpdatePage opens the product site in the browser.
func (a *App) OpenUpdatePage() {
	ctx := a.context()
	if ctx == nil {
		return
	}
	browserOpenURL(ctx, UpdateURL)
}
