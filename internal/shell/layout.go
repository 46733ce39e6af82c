package shell

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/wanggangzero/RoslynPad/internal/window"
)

// floatingWindowsElement is the dock layout subtree that is never persisted.
const floatingWindowsElement = "FloatingWindows"

// LoadWindowLayout applies persisted bounds, state and font size. Each field
// is independent: a malformed one is skipped without affecting the others.
func (s *Shell) LoadWindowLayout() {
	st := s.vm.Settings()

	if text := st.WindowBounds(); text != "" {
		bounds, err := window.ParseRect(text)
		switch {
		case err != nil:
			s.log.Debug("ignoring malformed window bounds", zap.String("bounds", text), zap.Error(err))
		case bounds.IsZero():
			// An empty rectangle from a bad save; keep toolkit defaults
		default:
			s.win.SetBounds(bounds)
		}
	}

	if state, ok := window.ParseState(st.WindowState()); ok && state.Restorable() {
		s.win.SetState(state)
	}

	if size, ok := st.WindowFontSize(); ok {
		if size > 0 {
			s.win.SetFontSize(size)
		} else {
			s.log.Debug("ignoring non-positive font size", zap.Float64("size", size))
		}
	}
}

// SaveWindowLayout stores the window's restore bounds and current state.
func (s *Shell) SaveWindowLayout() {
	st := s.vm.Settings()
	st.SetWindowBounds(s.win.RestoreBounds().String())
	st.SetWindowState(s.win.State().String())
}

// LoadDockLayout restores the persisted dock arrangement. An empty blob
// keeps the default layout; a broken one is ignored.
func (s *Shell) LoadDockLayout() {
	text := s.vm.Settings().DockLayout()
	if text == "" {
		return
	}
	if err := s.deserializeDock(text); err != nil {
		s.log.Debug("ignoring unreadable dock layout", zap.Error(err))
	}
}

func (s *Shell) deserializeDock(text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in dock deserializer: %v", r)
		}
	}()
	return s.dock.Deserialize(strings.NewReader(text))
}

// SaveDockLayout stores the dock arrangement without its floating windows.
func (s *Shell) SaveDockLayout() {
	text, err := s.serializeDock()
	if err != nil {
		s.log.Warn("failed to save dock layout", zap.Error(err))
		return
	}
	s.vm.Settings().SetDockLayout(text)
}

func (s *Shell) serializeDock() (string, error) {
	var buf bytes.Buffer
	if err := s.dock.Serialize(&buf); err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("dock serializer produced invalid XML: %w", err)
	}
	if root := doc.Root(); root != nil {
		if floating := root.SelectElement(floatingWindowsElement); floating != nil {
			root.RemoveChild(floating)
		}
	}
	doc.Indent(2)

	return doc.WriteToString()
}
