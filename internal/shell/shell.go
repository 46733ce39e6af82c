// Package shell is the lifecycle controller of the main editor window. It
// restores and persists window and dock layout, routes document close
// gestures through the view-model, and runs the two-phase close protocol
// that lets application cleanup finish before the process exits.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Options wires a Shell to its collaborators.
type Options struct {
	ViewModel ViewModel
	Window    Window
	Dock      DockWidget
	UI        Dispatcher
	// Exit ends the process. Called once, after the final close.
	Exit func()
	// Context is passed to Initialize and CloseDocument. Default: Background.
	Context context.Context
	Logger  *zap.Logger
}

// Shell is the main window controller.
type Shell struct {
	vm   ViewModel
	win  Window
	dock DockWidget
	ui   Dispatcher
	exit func()
	ctx  context.Context
	log  *zap.Logger

	mu    sync.Mutex
	state ShutdownState

	initOnce sync.Once
	exitOnce sync.Once
	wg       sync.WaitGroup
}

// New binds the view-model to the window and restores window and dock
// layout from its settings. Call it before the window is shown.
func New(opts Options) (*Shell, error) {
	switch {
	case opts.ViewModel == nil:
		return nil, errors.New("shell: view-model is required")
	case opts.Window == nil:
		return nil, errors.New("shell: window is required")
	case opts.Dock == nil:
		return nil, errors.New("shell: dock widget is required")
	case opts.UI == nil:
		return nil, errors.New("shell: UI dispatcher is required")
	case opts.Exit == nil:
		return nil, errors.New("shell: exit function is required")
	}
	if opts.ViewModel.Settings() == nil {
		return nil, errors.New("shell: view-model has no settings")
	}

	s := &Shell{
		vm:   opts.ViewModel,
		win:  opts.Window,
		dock: opts.Dock,
		ui:   opts.UI,
		exit: opts.Exit,
		ctx:  opts.Context,
		log:  opts.Logger,
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.Named("shell")

	s.LoadWindowLayout()
	s.LoadDockLayout()

	return s, nil
}

// DataContext returns the view-model bound to the window.
func (s *Shell) DataContext() ViewModel {
	return s.vm
}

// OnLoaded runs the view-model's initialization in the background. Only the
// first call has an effect.
func (s *Shell) OnLoaded() {
	s.initOnce.Do(func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.initialize(); err != nil {
				s.log.Error("view-model initialization failed", zap.Error(err))
			}
		}()
	})
}

func (s *Shell) initialize() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in Initialize: %v", r)
		}
	}()
	return s.vm.Initialize(s.ctx)
}

// Wait blocks until background work started by the shell has finished.
func (s *Shell) Wait() {
	s.wg.Wait()
}
