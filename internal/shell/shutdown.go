package shell

import (
	"fmt"

	"go.uber.org/zap"
)

// ShutdownState is the close protocol's state.
type ShutdownState int

const (
	// Open is the initial state: the next close request starts cleanup.
	Open ShutdownState = iota
	// Closing means cleanup is running; close requests are canceled.
	Closing
	// Closed means cleanup finished; close requests go through.
	Closed
)

func (s ShutdownState) String() string {
	switch s {
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("ShutdownState(%d)", int(s))
}

// State returns the current shutdown state.
func (s *Shell) State() ShutdownState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnClosing handles a window close request and reports whether to cancel it.
//
// The first request persists layout, disables the window, cancels, and
// starts the view-model's cleanup in the background. When cleanup returns
// the shell issues a second close on the UI thread, which is let through.
// Requests arriving while cleanup runs are canceled.
func (s *Shell) OnClosing() (cancel bool) {
	s.mu.Lock()
	switch s.state {
	case Closing:
		s.mu.Unlock()
		s.log.Debug("close requested while cleanup is running, canceled")
		return true
	case Closed:
		s.mu.Unlock()
		return false
	}
	s.state = Closing
	s.mu.Unlock()

	s.SaveDockLayout()
	s.SaveWindowLayout()
	s.win.SetEnabled(false)

	s.log.Info("close requested, running cleanup")
	s.wg.Add(1)
	go s.cleanup()

	return true
}

func (s *Shell) cleanup() {
	defer s.wg.Done()

	if err := s.runExit(); err != nil {
		s.log.Warn("cleanup failed, closing anyway", zap.Error(err))
	}

	s.mu.Lock()
	s.state = Closed
	s.mu.Unlock()

	s.ui.Dispatch(s.win.Close)
}

func (s *Shell) runExit() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in OnExit: %v", r)
		}
	}()
	return s.vm.OnExit()
}

// OnClosed is called once the window has actually closed. It ends the
// process; repeated calls are ignored.
func (s *Shell) OnClosed() {
	s.exitOnce.Do(func() {
		if state := s.State(); state != Closed {
			s.log.Warn("window closed without cleanup", zap.Stringer("state", state))
		}
		s.log.Info("shell closed, exiting")
		s.exit()
	})
}
