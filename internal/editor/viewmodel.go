package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wanggangzero/RoslynPad/internal/dock"
	"github.com/wanggangzero/RoslynPad/internal/settings"
	"github.com/wanggangzero/RoslynPad/internal/shell"
)

// Options configures a MainViewModel.
type Options struct {
	Settings *settings.Settings
	// Store persists Settings at exit. Nil disables persistence.
	Store *settings.Store
	Dock  *dock.Manager
	// Prompter is asked before closing a dirty document. Without one,
	// dirty documents are autosaved and closed, or kept open when
	// autosave is off.
	Prompter    Prompter
	AutosaveDir string
	Autosave    bool
	Logger      *zap.Logger
}

// MainViewModel is the editor's main view-model. It satisfies
// shell.ViewModel.
type MainViewModel struct {
	settings    *settings.Settings
	store       *settings.Store
	dock        *dock.Manager
	prompter    Prompter
	autosaveDir string
	autosave    bool
	log         *zap.Logger

	mu          sync.Mutex
	docs        map[shell.DocumentID]*Document
	order       []shell.DocumentID
	untitled    int
	lastErr     error
	initialized bool
}

var _ shell.ViewModel = (*MainViewModel)(nil)

// New creates the view-model.
func New(opts Options) (*MainViewModel, error) {
	if opts.Settings == nil {
		return nil, errors.New("editor: settings are required")
	}
	if opts.Dock == nil {
		return nil, errors.New("editor: dock manager is required")
	}
	if opts.Autosave && opts.AutosaveDir == "" {
		return nil, errors.New("editor: autosave directory is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &MainViewModel{
		settings:    opts.Settings,
		store:       opts.Store,
		dock:        opts.Dock,
		prompter:    opts.Prompter,
		autosaveDir: opts.AutosaveDir,
		autosave:    opts.Autosave,
		log:         log.Named("editor"),
		docs:        make(map[shell.DocumentID]*Document),
	}, nil
}

// Settings returns the settings the shell persists layout into.
func (vm *MainViewModel) Settings() *settings.Settings {
	return vm.settings
}

// LastError returns the last error recorded by a background operation.
func (vm *MainViewModel) LastError() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.lastErr
}

// ReportError records err as the last unhandled error.
func (vm *MainViewModel) ReportError(err error) {
	if err == nil {
		return
	}
	vm.mu.Lock()
	vm.lastErr = err
	vm.mu.Unlock()
	vm.log.Error("unhandled error", zap.Error(err))
}

// Initialize restores autosaved documents and reconciles the dock layout
// with what is open. When nothing was restored an empty document is opened.
func (vm *MainViewModel) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	vm.mu.Lock()
	if vm.initialized {
		vm.mu.Unlock()
		return nil
	}
	vm.initialized = true
	vm.mu.Unlock()

	if vm.autosave {
		docs, skipped, err := readAutosaves(vm.autosaveDir)
		if err != nil {
			vm.ReportError(err)
			return err
		}
		for _, path := range skipped {
			vm.log.Warn("skipping unreadable autosave", zap.String("path", path))
		}
		vm.mu.Lock()
		for _, d := range docs {
			vm.addLocked(d)
		}
		vm.mu.Unlock()
		if len(docs) > 0 {
			vm.log.Info("restored autosaved documents", zap.Int("count", len(docs)))
		}
	}

	vm.reconcileLayout()

	if len(vm.Documents()) == 0 {
		vm.NewDocument()
	}
	return nil
}

// reconcileLayout drops panes of documents that are no longer open and
// docks open documents the layout does not show.
func (vm *MainViewModel) reconcileLayout() {
	open := make(map[string]bool)
	for _, d := range vm.Documents() {
		open[string(d.ID)] = true
	}

	inLayout := make(map[string]bool)
	for _, id := range vm.dock.Layout().Documents() {
		if !open[id] {
			vm.dock.RemoveDocument(id)
			continue
		}
		inLayout[id] = true
	}
	for _, d := range vm.Documents() {
		if !inLayout[string(d.ID)] {
			vm.dock.AddDocument(string(d.ID), d.Title)
		}
	}
}

func (vm *MainViewModel) addLocked(d *Document) {
	vm.docs[d.ID] = d
	vm.order = append(vm.order, d.ID)
}

func (vm *MainViewModel) removeLocked(id shell.DocumentID) {
	delete(vm.docs, id)
	for i, o := range vm.order {
		if o == id {
			vm.order = append(vm.order[:i], vm.order[i+1:]...)
			break
		}
	}
}

// NewDocument opens an empty, untitled document.
func (vm *MainViewModel) NewDocument() Document {
	vm.mu.Lock()
	vm.untitled++
	d := &Document{
		ID:    shell.DocumentID(uuid.New().String()),
		Title: fmt.Sprintf("New%d", vm.untitled),
	}
	vm.addLocked(d)
	doc := *d
	vm.mu.Unlock()

	vm.dock.AddDocument(string(doc.ID), doc.Title)
	return doc
}

// OpenFile opens the script at path. A file that is already open is
// activated instead.
func (vm *MainViewModel) OpenFile(path string) (Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	vm.mu.Lock()
	for _, id := range vm.order {
		if d := vm.docs[id]; d.Path == abs {
			doc := *d
			vm.mu.Unlock()
			vm.dock.AddDocument(string(doc.ID), doc.Title)
			return doc, nil
		}
	}
	vm.mu.Unlock()

	data, err := os.ReadFile(abs)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open %s: %w", abs, err)
	}

	d := &Document{
		ID:    shell.DocumentID(uuid.New().String()),
		Title: titleFromPath(abs),
		Path:  abs,
		Text:  string(data),
	}
	vm.mu.Lock()
	vm.addLocked(d)
	doc := *d
	vm.mu.Unlock()

	vm.dock.AddDocument(string(doc.ID), doc.Title)
	vm.log.Debug("document opened", zap.String("path", abs))
	return doc, nil
}

// Document returns a copy of the document with id.
func (vm *MainViewModel) Document(id shell.DocumentID) (Document, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	d, ok := vm.docs[id]
	if !ok {
		return Document{}, false
	}
	return *d, true
}

// Documents returns copies of the open documents in opening order.
func (vm *MainViewModel) Documents() []Document {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	docs := make([]Document, 0, len(vm.order))
	for _, id := range vm.order {
		docs = append(docs, *vm.docs[id])
	}
	return docs
}

// UpdateText replaces a document's text and marks it dirty.
func (vm *MainViewModel) UpdateText(id shell.DocumentID, text string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	d, ok := vm.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if d.Text != text {
		d.Text = text
		d.Dirty = true
	}
	return nil
}

// SaveDocument writes a document to its file.
func (vm *MainViewModel) SaveDocument(id shell.DocumentID) error {
	return vm.save(id, "")
}

// SaveDocumentAs writes a document to path and makes path its file.
func (vm *MainViewModel) SaveDocumentAs(id shell.DocumentID, path string) error {
	if path == "" {
		return ErrNoPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return vm.save(id, abs)
}

func (vm *MainViewModel) save(id shell.DocumentID, path string) error {
	vm.mu.Lock()
	d, ok := vm.docs[id]
	if !ok {
		vm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if path == "" {
		path = d.Path
	}
	text := d.Text
	vm.mu.Unlock()

	if path == "" {
		return fmt.Errorf("%w: %s", ErrNoPath, id)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	vm.mu.Lock()
	retitled := false
	if d, ok := vm.docs[id]; ok {
		if d.Path != path {
			d.Path = path
			d.Title = titleFromPath(path)
			retitled = true
		}
		// Edits made while writing keep the document dirty
		if d.Text == text {
			d.Dirty = false
		}
	}
	title := titleFromPath(path)
	vm.mu.Unlock()

	if retitled {
		vm.dock.RenameDocument(string(id), title)
	}
	if vm.autosave {
		if err := removeAutosave(vm.autosaveDir, id); err != nil {
			vm.log.Warn("failed to remove autosave", zap.String("document", string(id)), zap.Error(err))
		}
	}
	return nil
}

// CloseDocument decides whether a document may close. Clean documents
// close; dirty ones go through the Prompter. A document that is not open
// is reported closed so a stale pane can go away.
func (vm *MainViewModel) CloseDocument(ctx context.Context, id shell.DocumentID) (bool, error) {
	doc, ok := vm.Document(id)
	if !ok {
		return true, nil
	}

	if doc.Dirty {
		closed, err := vm.resolveDirty(ctx, doc)
		if err != nil || !closed {
			return false, err
		}
	}

	vm.mu.Lock()
	vm.removeLocked(id)
	vm.mu.Unlock()
	vm.log.Debug("document closed", zap.String("document", string(id)))
	return true, nil
}

// resolveDirty settles a dirty document before it closes.
func (vm *MainViewModel) resolveDirty(ctx context.Context, doc Document) (bool, error) {
	if vm.prompter == nil {
		if !vm.autosave {
			return false, nil
		}
		// Kept for the next session
		if err := writeAutosave(vm.autosaveDir, &doc); err != nil {
			return false, err
		}
		return true, nil
	}

	choice, err := vm.prompter.PromptSave(ctx, doc)
	if err != nil {
		return false, fmt.Errorf("save prompt failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	switch choice {
	case Save:
		if err := vm.SaveDocument(doc.ID); err != nil {
			vm.ReportError(err)
			return false, err
		}
	case DontSave:
		if vm.autosave {
			if err := removeAutosave(vm.autosaveDir, doc.ID); err != nil {
				vm.log.Warn("failed to remove autosave", zap.String("document", string(doc.ID)), zap.Error(err))
			}
		}
	default:
		return false, nil
	}
	return true, nil
}

// OnExit autosaves dirty documents, drops autosaves of clean ones and
// persists settings. Every step runs; the errors are combined.
func (vm *MainViewModel) OnExit() error {
	var errs error

	if vm.autosave {
		for _, d := range vm.Documents() {
			if d.Dirty {
				errs = multierr.Append(errs, writeAutosave(vm.autosaveDir, &d))
			} else {
				errs = multierr.Append(errs, removeAutosave(vm.autosaveDir, d.ID))
			}
		}
	}

	if vm.store != nil {
		errs = multierr.Append(errs, vm.store.Save(vm.settings))
	}

	if errs != nil {
		vm.ReportError(errs)
		return errs
	}
	vm.log.Info("exit cleanup complete", zap.Int("documents", len(vm.Documents())))
	return nil
}
