package editor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wanggangzero/RoslynPad/internal/shell"
)

const autosaveExt = ".autosave.toml"

// autosaveRecord is the on-disk form of an unsaved document.
type autosaveRecord struct {
	ID      string    `toml:"id"`
	Title   string    `toml:"title"`
	Path    string    `toml:"path,omitempty"`
	Text    string    `toml:"text"`
	SavedAt time.Time `toml:"saved_at"`
}

func autosavePath(dir string, id shell.DocumentID) string {
	return filepath.Join(dir, string(id)+autosaveExt)
}

// writeAutosave stores d's text so it survives the process.
func writeAutosave(dir string, d *Document) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create autosave directory: %w", err)
	}

	rec := autosaveRecord{
		ID:      string(d.ID),
		Title:   d.Title,
		Path:    d.Path,
		Text:    d.Text,
		SavedAt: time.Now().UTC(),
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("failed to encode autosave: %w", err)
	}

	path := autosavePath(dir, d.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write autosave: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write autosave: %w", err)
	}
	return nil
}

// readAutosaves loads every autosaved document in dir, oldest first.
// Unreadable records are skipped and reported in skipped.
func readAutosaves(dir string) (docs []*Document, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read autosave directory: %w", err)
	}

	type loaded struct {
		doc     *Document
		savedAt time.Time
	}
	var all []loaded
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), autosaveExt) {
			continue
		}
		path := filepath.Join(dir, e.Name())

		var rec autosaveRecord
		if _, err := toml.DecodeFile(path, &rec); err != nil || rec.ID+autosaveExt != e.Name() {
			skipped = append(skipped, path)
			continue
		}
		all = append(all, loaded{
			doc: &Document{
				ID:    shell.DocumentID(rec.ID),
				Title: rec.Title,
				Path:  rec.Path,
				Text:  rec.Text,
				Dirty: true,
			},
			savedAt: rec.SavedAt,
		})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].savedAt.Before(all[j].savedAt) })
	for _, l := range all {
		docs = append(docs, l.doc)
	}
	return docs, skipped, nil
}

func removeAutosave(dir string, id shell.DocumentID) error {
	if err := os.Remove(autosavePath(dir, id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove autosave: %w", err)
	}
	return nil
}
