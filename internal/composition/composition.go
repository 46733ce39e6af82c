// Package composition assembles the process-wide services and the main
// view-model in a dependency container.
package composition

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/wanggangzero/RoslynPad/internal/config"
	"github.com/wanggangzero/RoslynPad/internal/dock"
	"github.com/wanggangzero/RoslynPad/internal/editor"
	"github.com/wanggangzero/RoslynPad/internal/settings"
	"github.com/wanggangzero/RoslynPad/internal/shell"
)

// Services is everything the window needs, resolved once.
type Services struct {
	dig.In

	Env       *config.Env
	Logger    *zap.Logger
	Store     *settings.Store
	Settings  *settings.Settings
	Dock      *dock.Manager
	Editor    *editor.MainViewModel
	ViewModel shell.ViewModel
}

type editorParams struct {
	dig.In

	Env      *config.Env
	Logger   *zap.Logger
	Store    *settings.Store
	Settings *settings.Settings
	Dock     *dock.Manager
	Prompter editor.Prompter `optional:"true"`
}

// Build provides the services to a new container. extra constructors are
// provided after the built-in ones, e.g. a toolkit-backed editor.Prompter.
func Build(env *config.Env, log *zap.Logger, extra ...interface{}) (*dig.Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := dig.New()

	ctors := []interface{}{
		func() *config.Env { return env },
		func() *zap.Logger { return log },
		newStore,
		loadSettings,
		newDock,
		newEditor,
		func(vm *editor.MainViewModel) shell.ViewModel { return vm },
	}
	ctors = append(ctors, extra...)

	for _, ctor := range ctors {
		if err := c.Provide(ctor); err != nil {
			return nil, fmt.Errorf("failed to register service: %w", err)
		}
	}
	return c, nil
}

// Resolve builds every service. The container caches instances, so each
// call returns the same view-model.
func Resolve(c *dig.Container) (*Services, error) {
	var out *Services
	err := c.Invoke(func(s Services) {
		out = &s
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve services: %w", err)
	}
	return out, nil
}

func newStore(env *config.Env, log *zap.Logger) *settings.Store {
	return settings.NewStore(env.SettingsPath(), log)
}

func loadSettings(store *settings.Store) (*settings.Settings, error) {
	return store.Load()
}

func newDock(log *zap.Logger) *dock.Manager {
	return dock.NewManager(log)
}

func newEditor(p editorParams) (*editor.MainViewModel, error) {
	return editor.New(editor.Options{
		Settings:    p.Settings,
		Store:       p.Store,
		Dock:        p.Dock,
		Prompter:    p.Prompter,
		AutosaveDir: p.Env.AutosaveDir(),
		Autosave:    p.Env.Autosave,
		Logger:      p.Logger,
	})
}
