package dock

import (
	"fmt"
	"io"
	"sync"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentsContentID is the content id of the documents explorer tool.
const DocumentsContentID = "documents"

// Manager owns the current dock layout. The frontend pushes arrangement
// changes with Apply and is notified of Go-side changes through OnChange.
type Manager struct {
	mu        sync.Mutex
	layout    *Layout
	listeners []func(*Layout)
	log       *zap.Logger
}

// NewManager creates a manager holding DefaultLayout.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		layout: DefaultLayout(),
		log:    log.Named("dock"),
	}
}

// DefaultLayout is the arrangement used when nothing is persisted: one
// empty document pane, with the documents explorer auto-hidden.
func DefaultLayout() *Layout {
	return &Layout{
		Root: &Node{
			Kind:        KindPanel,
			Orientation: Horizontal,
			Children: []*Node{
				{Kind: KindDocumentPane, ID: uuid.New().String()},
			},
		},
		Hidden: []*Node{
			{Kind: KindAnchorable, ContentID: DocumentsContentID, Title: "Documents"},
		},
	}
}

// Layout returns a copy of the current layout.
func (m *Manager) Layout() *Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layout.Clone()
}

// OnChange registers fn to be called with a copy of the layout after every
// change made through the manager.
func (m *Manager) OnChange(fn func(*Layout)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Apply replaces the layout after validating it.
func (m *Manager) Apply(l *Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	m.set(l.Clone())
	return nil
}

// Serialize writes the current layout as XML.
func (m *Manager) Serialize(w io.Writer) error {
	m.mu.Lock()
	doc := EncodeXML(m.layout)
	m.mu.Unlock()

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write dock layout: %w", err)
	}
	return nil
}

// Deserialize reads an XML layout and replaces the current one. On error
// the current layout is kept.
func (m *Manager) Deserialize(r io.Reader) error {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	l, err := DecodeXML(doc)
	if err != nil {
		return err
	}
	m.set(l)
	return nil
}

// AddDocument docks a document into the first document pane and activates
// it. A pane is created when none exists. Adding an existing content id
// only activates it.
func (m *Manager) AddDocument(contentID, title string) {
	m.update(func(l *Layout) bool {
		var pane *Node
		var existing *Node
		visit := func(n *Node) {
			if n.Kind == KindDocumentPane && pane == nil {
				pane = n
			}
			if n.Kind == KindDocument && n.ContentID == contentID {
				existing = n
			}
			if n.Kind == KindDocument {
				n.IsActive = false
			}
		}
		l.Root.Walk(visit)
		for _, fw := range l.Floating {
			fw.Pane.Walk(visit)
		}

		if existing != nil {
			existing.IsActive = true
			return true
		}
		if pane == nil {
			pane = &Node{Kind: KindDocumentPane, ID: uuid.New().String()}
			l.Root.Children = append(l.Root.Children, pane)
		}
		pane.Children = append(pane.Children, &Node{
			Kind:      KindDocument,
			ContentID: contentID,
			Title:     title,
			IsActive:  true,
		})
		return true
	})
}

// RemoveDocument removes a document's pane entry. Returns false when the
// document is not in the layout.
func (m *Manager) RemoveDocument(contentID string) bool {
	removed := m.update(func(l *Layout) bool {
		removed := removeContent(l.Root, contentID)
		floating := l.Floating[:0]
		for _, fw := range l.Floating {
			if removeContent(fw.Pane, contentID) {
				removed = true
			}
			// An emptied floating window closes with its last document
			if len(fw.Pane.Children) > 0 {
				floating = append(floating, fw)
			}
		}
		l.Floating = floating
		return removed
	})
	if removed {
		m.log.Debug("document removed from layout", zap.String("contentId", contentID))
	}
	return removed
}

// RenameDocument changes a document's title. Returns false when the
// document is not in the layout.
func (m *Manager) RenameDocument(contentID, title string) bool {
	return m.update(func(l *Layout) bool {
		found := false
		rename := func(n *Node) {
			if n.Kind == KindDocument && n.ContentID == contentID {
				n.Title = title
				found = true
			}
		}
		l.Root.Walk(rename)
		for _, fw := range l.Floating {
			fw.Pane.Walk(rename)
		}
		return found
	})
}

// HasDocument reports whether a document is docked or floating.
func (m *Manager) HasDocument(contentID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.layout.Documents() {
		if id == contentID {
			return true
		}
	}
	return false
}

func (m *Manager) set(l *Layout) {
	m.mu.Lock()
	m.layout = l
	listeners := append([]func(*Layout){}, m.listeners...)
	m.mu.Unlock()

	m.notify(listeners, l)
}

// update edits a copy of the layout and swaps it in when fn reports a
// change. The lock is held from copy to swap so concurrent edits compose;
// listeners run after it is released.
func (m *Manager) update(fn func(l *Layout) bool) bool {
	m.mu.Lock()
	l := m.layout.Clone()
	if !fn(l) {
		m.mu.Unlock()
		return false
	}
	m.layout = l
	listeners := append([]func(*Layout){}, m.listeners...)
	m.mu.Unlock()

	m.notify(listeners, l)
	return true
}

func (m *Manager) notify(listeners []func(*Layout), l *Layout) {
	for _, fn := range listeners {
		fn(l.Clone())
	}
}

func removeContent(n *Node, contentID string) bool {
	if n == nil {
		return false
	}
	for i, child := range n.Children {
		if child.Kind == KindDocument && child.ContentID == contentID {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
		if removeContent(child, contentID) {
			return true
		}
	}
	return false
}
