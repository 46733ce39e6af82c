// Package editor holds the main view-model: open documents, their
// save/close decisions, autosave and settings persistence at exit.
package editor

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/wanggangzero/RoslynPad/internal/shell"
)

var (
	// ErrDocumentNotFound is returned for ids that are not open.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNoPath is returned when saving a document that was never saved.
	ErrNoPath = errors.New("document has no file path")
)

// Document is an open script.
type Document struct {
	ID    shell.DocumentID `json:"id"`
	Title string           `json:"title"`
	Path  string           `json:"path,omitempty"`
	Text  string           `json:"text"`
	Dirty bool             `json:"dirty"`
}

func titleFromPath(path string) string {
	return filepath.Base(path)
}

// SaveChoice is the answer to a save prompt.
type SaveChoice int

const (
	Save SaveChoice = iota
	DontSave
	Cancel
)

func (c SaveChoice) String() string {
	switch c {
	case Save:
		return "Save"
	case DontSave:
		return "Don't Save"
	case Cancel:
		return "Cancel"
	}
	return "unknown"
}

// Prompter asks the user what to do with unsaved changes.
type Prompter interface {
	PromptSave(ctx context.Context, doc Document) (SaveChoice, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, doc Document) (SaveChoice, error)

func (f PrompterFunc) PromptSave(ctx context.Context, doc Document) (SaveChoice, error) {
	return f(ctx, doc)
}
