// Package dock models the docking arrangement of the shell window: panels
// split horizontally or vertically, panes holding documents or tool
// windows, floating windows and auto-hidden tools. The web frontend renders
// the arrangement; this package owns its state and its XML serialization.
package dock

import (
	"errors"
	"fmt"

	"github.com/wanggangzero/RoslynPad/internal/window"
)

// ErrInvalidLayout is returned for layouts that violate the tree shape.
var ErrInvalidLayout = errors.New("invalid dock layout")

// Kind identifies a layout element. Values are the XML element names.
type Kind string

const (
	KindPanel          Kind = "LayoutPanel"
	KindDocumentPane   Kind = "LayoutDocumentPane"
	KindAnchorablePane Kind = "LayoutAnchorablePane"
	KindDocument       Kind = "LayoutDocument"
	KindAnchorable     Kind = "LayoutAnchorable"
)

// Orientation of a panel's children.
const (
	Horizontal = "Horizontal"
	Vertical   = "Vertical"
)

// Node is a layout tree node (matches the frontend LayoutNode type).
type Node struct {
	Kind        Kind    `json:"kind"`
	ID          string  `json:"id,omitempty"`          // Pane ID (panes)
	Orientation string  `json:"orientation,omitempty"` // Horizontal or Vertical (panels)
	Size        float64 `json:"size,omitempty"`        // Share of the parent, 0 = auto
	ContentID   string  `json:"contentId,omitempty"`   // Content key (documents, anchorables)
	Title       string  `json:"title,omitempty"`
	IsActive    bool    `json:"isActive,omitempty"`
	Children    []*Node `json:"children,omitempty"`
}

// FloatingWindow is a pane torn out of the main window.
type FloatingWindow struct {
	Bounds window.Rect `json:"bounds"`
	Pane   *Node       `json:"pane"`
}

// Layout is the full docking arrangement.
type Layout struct {
	Root     *Node             `json:"root"`
	Floating []*FloatingWindow `json:"floating,omitempty"`
	Hidden   []*Node           `json:"hidden,omitempty"`
}

// Clone returns a deep copy of l.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	c := &Layout{Root: l.Root.Clone()}
	for _, fw := range l.Floating {
		c.Floating = append(c.Floating, &FloatingWindow{Bounds: fw.Bounds, Pane: fw.Pane.Clone()})
	}
	for _, h := range l.Hidden {
		c.Hidden = append(c.Hidden, h.Clone())
	}
	return c
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Children = nil
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return &c
}

// Walk calls fn for n and every descendant, depth first.
func (n *Node) Walk(fn func(n *Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Documents returns the content ids of all documents, docked first, then floating.
func (l *Layout) Documents() []string {
	var ids []string
	collect := func(n *Node) {
		if n.Kind == KindDocument {
			ids = append(ids, n.ContentID)
		}
	}
	l.Root.Walk(collect)
	for _, fw := range l.Floating {
		fw.Pane.Walk(collect)
	}
	return ids
}

// ActiveContent returns the content id of the active document, if any.
func (l *Layout) ActiveContent() string {
	var active string
	find := func(n *Node) {
		if n.IsActive && active == "" && n.ContentID != "" {
			active = n.ContentID
		}
	}
	l.Root.Walk(find)
	for _, fw := range l.Floating {
		fw.Pane.Walk(find)
	}
	return active
}

// Validate checks the tree shape: panels hold panes or panels, panes hold
// leaves of the matching kind, content ids are present and unique.
func (l *Layout) Validate() error {
	if l == nil || l.Root == nil {
		return fmt.Errorf("%w: missing root panel", ErrInvalidLayout)
	}
	if l.Root.Kind != KindPanel {
		return fmt.Errorf("%w: root must be a panel, got %s", ErrInvalidLayout, l.Root.Kind)
	}

	seen := make(map[string]bool)
	if err := validateNode(l.Root, seen); err != nil {
		return err
	}
	for _, fw := range l.Floating {
		if fw.Pane == nil {
			return fmt.Errorf("%w: floating window without pane", ErrInvalidLayout)
		}
		if fw.Pane.Kind != KindDocumentPane && fw.Pane.Kind != KindAnchorablePane {
			return fmt.Errorf("%w: floating window must hold a pane, got %s", ErrInvalidLayout, fw.Pane.Kind)
		}
		if err := validateNode(fw.Pane, seen); err != nil {
			return err
		}
	}
	for _, h := range l.Hidden {
		if h.Kind != KindAnchorable {
			return fmt.Errorf("%w: hidden item must be an anchorable, got %s", ErrInvalidLayout, h.Kind)
		}
		if err := validateLeaf(h, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateNode(n *Node, seen map[string]bool) error {
	switch n.Kind {
	case KindPanel:
		if n.Orientation != Horizontal && n.Orientation != Vertical {
			return fmt.Errorf("%w: panel orientation %q", ErrInvalidLayout, n.Orientation)
		}
		for _, child := range n.Children {
			switch child.Kind {
			case KindPanel, KindDocumentPane, KindAnchorablePane:
			default:
				return fmt.Errorf("%w: %s inside panel", ErrInvalidLayout, child.Kind)
			}
			if err := validateNode(child, seen); err != nil {
				return err
			}
		}
	case KindDocumentPane, KindAnchorablePane:
		want := KindDocument
		if n.Kind == KindAnchorablePane {
			want = KindAnchorable
		}
		for _, child := range n.Children {
			if child.Kind != want {
				return fmt.Errorf("%w: %s inside %s", ErrInvalidLayout, child.Kind, n.Kind)
			}
			if err := validateLeaf(child, seen); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unexpected %s", ErrInvalidLayout, n.Kind)
	}
	if n.Size < 0 {
		return fmt.Errorf("%w: negative size on %s", ErrInvalidLayout, n.Kind)
	}
	return nil
}

func validateLeaf(n *Node, seen map[string]bool) error {
	if n.ContentID == "" {
		return fmt.Errorf("%w: %s without content id", ErrInvalidLayout, n.Kind)
	}
	if seen[n.ContentID] {
		return fmt.Errorf("%w: duplicate content id %q", ErrInvalidLayout, n.ContentID)
	}
	if len(n.Children) > 0 {
		return fmt.Errorf("%w: %s %q has children", ErrInvalidLayout, n.Kind, n.ContentID)
	}
	seen[n.ContentID] = true
	return nil
}
