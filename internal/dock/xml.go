package dock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/wanggangzero/RoslynPad/internal/window"
)

// XML element names outside the node kinds.
const (
	ElementRoot            = "LayoutRoot"
	ElementRootPanel       = "RootPanel"
	ElementFloatingWindows = "FloatingWindows"
	ElementHidden          = "Hidden"

	elementDocumentFloat   = "LayoutDocumentFloatingWindow"
	elementAnchorableFloat = "LayoutAnchorableFloatingWindow"
)

// EncodeXML renders l as an XML document.
func EncodeXML(l *Layout) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement(ElementRoot)

	rootPanel := root.CreateElement(ElementRootPanel)
	writeNodeAttrs(rootPanel, l.Root)
	for _, child := range l.Root.Children {
		writeNode(rootPanel, child)
	}

	floating := root.CreateElement(ElementFloatingWindows)
	for _, fw := range l.Floating {
		tag := elementDocumentFloat
		if fw.Pane.Kind == KindAnchorablePane {
			tag = elementAnchorableFloat
		}
		el := floating.CreateElement(tag)
		el.CreateAttr("Left", formatFloat(fw.Bounds.Left))
		el.CreateAttr("Top", formatFloat(fw.Bounds.Top))
		el.CreateAttr("Width", formatFloat(fw.Bounds.Width))
		el.CreateAttr("Height", formatFloat(fw.Bounds.Height))
		writeNode(el, fw.Pane)
	}

	hidden := root.CreateElement(ElementHidden)
	for _, h := range l.Hidden {
		writeNode(hidden, h)
	}

	doc.Indent(2)
	return doc
}

func writeNode(parent *etree.Element, n *Node) {
	el := parent.CreateElement(string(n.Kind))
	writeNodeAttrs(el, n)
	for _, child := range n.Children {
		writeNode(el, child)
	}
}

func writeNodeAttrs(el *etree.Element, n *Node) {
	if n.ID != "" {
		el.CreateAttr("Id", n.ID)
	}
	if n.Orientation != "" {
		el.CreateAttr("Orientation", n.Orientation)
	}
	if n.Size != 0 {
		el.CreateAttr("DockSize", formatFloat(n.Size))
	}
	if n.ContentID != "" {
		el.CreateAttr("ContentId", n.ContentID)
	}
	if n.Title != "" {
		el.CreateAttr("Title", n.Title)
	}
	if n.IsActive {
		el.CreateAttr("IsActive", "True")
	}
}

// DecodeXML parses a document produced by EncodeXML. A missing
// FloatingWindows or Hidden element is not an error.
func DecodeXML(doc *etree.Document) (*Layout, error) {
	root := doc.Root()
	if root == nil || root.Tag != ElementRoot {
		return nil, fmt.Errorf("%w: missing %s element", ErrInvalidLayout, ElementRoot)
	}

	rootPanel := root.SelectElement(ElementRootPanel)
	if rootPanel == nil {
		return nil, fmt.Errorf("%w: missing %s element", ErrInvalidLayout, ElementRootPanel)
	}

	l := &Layout{}
	var err error
	if l.Root, err = readNodeAs(rootPanel, KindPanel); err != nil {
		return nil, err
	}

	if floating := root.SelectElement(ElementFloatingWindows); floating != nil {
		for _, el := range floating.ChildElements() {
			if el.Tag != elementDocumentFloat && el.Tag != elementAnchorableFloat {
				return nil, fmt.Errorf("%w: unexpected %s in %s", ErrInvalidLayout, el.Tag, ElementFloatingWindows)
			}
			fw, err := readFloatingWindow(el)
			if err != nil {
				return nil, err
			}
			l.Floating = append(l.Floating, fw)
		}
	}

	if hidden := root.SelectElement(ElementHidden); hidden != nil {
		for _, el := range hidden.ChildElements() {
			n, err := readNode(el)
			if err != nil {
				return nil, err
			}
			l.Hidden = append(l.Hidden, n)
		}
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func readFloatingWindow(el *etree.Element) (*FloatingWindow, error) {
	var vals [4]float64
	for i, attr := range []string{"Left", "Top", "Width", "Height"} {
		v, err := parseFloatAttr(el, attr)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	children := el.ChildElements()
	if len(children) != 1 {
		return nil, fmt.Errorf("%w: %s must hold exactly one pane", ErrInvalidLayout, el.Tag)
	}
	pane, err := readNode(children[0])
	if err != nil {
		return nil, err
	}

	return &FloatingWindow{
		Bounds: window.Rect{Left: vals[0], Top: vals[1], Width: vals[2], Height: vals[3]},
		Pane:   pane,
	}, nil
}

func readNode(el *etree.Element) (*Node, error) {
	kind := Kind(el.Tag)
	switch kind {
	case KindPanel, KindDocumentPane, KindAnchorablePane, KindDocument, KindAnchorable:
	default:
		return nil, fmt.Errorf("%w: unknown element %s", ErrInvalidLayout, el.Tag)
	}
	return readNodeAs(el, kind)
}

func readNodeAs(el *etree.Element, kind Kind) (*Node, error) {
	size, err := parseFloatAttr(el, "DockSize")
	if err != nil {
		return nil, err
	}

	n := &Node{
		Kind:        kind,
		ID:          el.SelectAttrValue("Id", ""),
		Orientation: el.SelectAttrValue("Orientation", ""),
		Size:        size,
		ContentID:   el.SelectAttrValue("ContentId", ""),
		Title:       el.SelectAttrValue("Title", ""),
		IsActive:    strings.EqualFold(el.SelectAttrValue("IsActive", ""), "true"),
	}
	for _, childEl := range el.ChildElements() {
		child, err := readNode(childEl)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func parseFloatAttr(el *etree.Element, name string) (float64, error) {
	s := el.SelectAttrValue(name, "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s=%q", ErrInvalidLayout, el.Tag, name, s)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
