package shell

import (
	"fmt"

	"go.uber.org/zap"
)

// OnDocumentClosing intercepts a document pane close gesture. The toolkit's
// own removal is always canceled; the view-model decides in the background
// and the pane is removed on the UI thread only if it agreed to close.
func (s *Shell) OnDocumentClosing(id DocumentID) (cancel bool) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		closed, err := s.closeDocument(id)
		if err != nil {
			s.log.Warn("document close failed", zap.String("document", string(id)), zap.Error(err))
			return
		}
		if !closed {
			s.log.Debug("document close declined", zap.String("document", string(id)))
			return
		}
		s.ui.Dispatch(func() {
			s.dock.RemoveDocument(string(id))
		})
	}()
	return true
}

func (s *Shell) closeDocument(id DocumentID) (closed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in CloseDocument: %v", r)
		}
	}()
	return s.vm.CloseDocument(s.ctx, id)
}
