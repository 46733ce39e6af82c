package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/wanggangzero/RoslynPad/internal/composition"
	"github.com/wanggangzero/RoslynPad/internal/config"
	"github.com/wanggangzero/RoslynPad/internal/editor"
	"github.com/wanggangzero/RoslynPad/internal/settings"
	"github.com/wanggangzero/RoslynPad/internal/shell"
)

type testApp struct {
	app    *App
	rt     *fakeRuntime
	env    *config.Env
	exited context.Context
}

// newTestApp wires the app the way run does, with the runtime stubbed.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	rt := stubRuntime(t)
	env := &config.Env{ConfigDir: t.TempDir(), LogLevel: "info", Autosave: true}

	win := newWailsWindow(nil)
	app := NewApp(win, nil)

	c, err := composition.Build(env, nil, app.prompter)
	require.NoError(t, err)
	svc, err := composition.Resolve(c)
	require.NoError(t, err)
	app.bind(svc)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	loop := shell.NewLoop(nil)
	go loop.Run(ctx)

	sh, err := shell.New(shell.Options{
		ViewModel: svc.ViewModel,
		Window:    win,
		Dock:      svc.Dock,
		UI:        loop,
		Exit:      cancel,
		Context:   ctx,
	})
	require.NoError(t, err)
	app.shell = sh

	return &testApp{app: app, rt: rt, env: env, exited: ctx}
}

// start runs the startup hooks like the runtime does.
func (ta *testApp) start(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	ta.app.startup(ctx)
	ta.app.domReady(ctx)
	ta.app.shell.Wait()
}

func TestAppStartupInitializes(t *testing.T) {
	ta := newTestApp(t)
	ta.start(t)

	docs := ta.app.ListDocuments()
	require.Len(t, docs, 1)
	assert.Equal(t, "New1", docs[0].Title)
	assert.NotEmpty(t, ta.rt.eventsNamed(eventDockLayout))
	assert.Equal(t, []string{string(docs[0].ID)}, ta.app.GetDockLayout().Documents())
}

func TestAppCloseProtocol(t *testing.T) {
	ta := newTestApp(t)
	ta.start(t)
	ctx := context.Background()

	// The runtime re-enters OnBeforeClose on Quit and shuts down when allowed
	ta.rt.set(func() {
		ta.rt.onQuit = func() {
			if !ta.app.beforeClose(ctx) {
				ta.app.shutdown(ctx)
			}
		}
	})

	assert.True(t, ta.app.beforeClose(ctx), "first close is prevented")
	select {
	case <-ta.exited.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("process exit was not requested")
	}
	assert.Equal(t, 1, ta.rt.quitCount())
	assert.Equal(t, shell.Closed, ta.app.shell.State())

	loaded, err := settings.NewStore(ta.env.SettingsPath(), nil).Load()
	require.NoError(t, err)
	assert.Equal(t, "0,0,1024,768", loaded.WindowBounds())
	assert.Equal(t, "Normal", loaded.WindowState())
	assert.Contains(t, loaded.DockLayout(), "LayoutDocument")
	assert.NotContains(t, loaded.DockLayout(), "FloatingWindows")
}

func TestAppCloseDocumentPrompts(t *testing.T) {
	ta := newTestApp(t)
	ta.start(t)
	doc := ta.app.ListDocuments()[0]
	require.NoError(t, ta.app.UpdateDocument(string(doc.ID), "dirty"))

	ta.rt.set(func() { ta.rt.answer = editor.Cancel.String() })
	ta.app.CloseDocument(string(doc.ID))
	ta.app.shell.Wait()
	assert.Len(t, ta.app.ListDocuments(), 1)

	ta.rt.set(func() { ta.rt.answer = editor.DontSave.String() })
	ta.app.CloseDocument(string(doc.ID))
	ta.app.shell.Wait()
	assert.Empty(t, ta.app.ListDocuments())
	assert.Eventually(t, func() bool {
		return len(ta.app.GetDockLayout().Documents()) == 0
	}, 2*time.Second, 10*time.Millisecond)

	ta.rt.mu.Lock()
	defer ta.rt.mu.Unlock()
	require.Len(t, ta.rt.dialogs, 2)
	assert.Equal(t, runtime.QuestionDialog, ta.rt.dialogs[0].Type)
	assert.Contains(t, ta.rt.dialogs[0].Message, doc.Title)
}

func TestAppSaveDocumentAsksForPath(t *testing.T) {
	ta := newTestApp(t)
	ta.start(t)
	doc := ta.app.ListDocuments()[0]
	require.NoError(t, ta.app.UpdateDocument(string(doc.ID), "1 + 2"))

	saved, err := ta.app.SaveDocument(string(doc.ID))
	require.NoError(t, err)
	assert.False(t, saved, "dismissed dialog")

	path := filepath.Join(ta.env.ConfigDir, "Sum.csx")
	ta.rt.set(func() { ta.rt.savePath = path })
	saved, err = ta.app.SaveDocument(string(doc.ID))
	require.NoError(t, err)
	assert.True(t, saved)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 + 2", string(data))
	assert.Equal(t, "Sum.csx", ta.app.ListDocuments()[0].Title)
}

func TestAppOpenDocumentDialog(t *testing.T) {
	ta := newTestApp(t)
	ta.start(t)

	doc, err := ta.app.OpenDocumentDialog()
	require.NoError(t, err)
	assert.Nil(t, doc)

	path := filepath.Join(ta.env.ConfigDir, "Hello.csx")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0644))
	ta.rt.set(func() { ta.rt.openPath = path })

	doc, err = ta.app.OpenDocumentDialog()
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "hi", doc.Text)
}

func TestAppViewErrorDetails(t *testing.T) {
	ta := newTestApp(t)
	ta.start(t)

	ta.app.ViewErrorDetails()
	assert.Empty(t, ta.rt.dialogs, "no dialog without an error")

	ta.app.ReportError("script crashed")
	ta.app.ViewErrorDetails()

	require.Len(t, ta.rt.dialogs, 1)
	assert.Equal(t, "Unhandled Exception", ta.rt.dialogs[0].Title)
	assert.Equal(t, "script crashed", ta.rt.dialogs[0].Message)
	assert.Len(t, ta.rt.eventsNamed(eventError), 1)
}

func TestAppOpenUpdatePage(t *testing.T) {
	ta := newTestApp(t)

	ta.app.OpenUpdatePage()
	assert.Empty(t, ta.rt.urls, "ignored before startup")

	ta.start(t)
	ta.app.OpenUpdatePage()
	assert.Equal(t, []string{UpdateURL}, ta.rt.urls)
}

func TestAppSettingsBindings(t *testing.T) {
	ta := newTestApp(t)

	assert.Equal(t, settings.DefaultFontSize, ta.app.GetEditorFontSize())
	assert.Equal(t, settings.MaxFontSize, ta.app.SetEditorFontSize(100))
	assert.Equal(t, "light", ta.app.SetTheme("light"))
	assert.Equal(t, settings.DefaultTheme, ta.app.SetTheme("neon"))
	assert.Equal(t, "0.1.0-dev", ta.app.GetVersion())
}

func TestAppContextSharedWithBackgroundCallers(t *testing.T) {
	ta := newTestApp(t)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			ta.app.OpenUpdatePage()
		}
	}()
	ta.app.startup(context.Background())
	wg.Wait()

	require.NotNil(t, ta.app.context())
	ta.app.OpenUpdatePage()

	ta.rt.mu.Lock()
	defer ta.rt.mu.Unlock()
	assert.NotEmpty(t, ta.rt.urls)
	assert.LessOrEqual(t, len(ta.rt.urls), 101)
}
