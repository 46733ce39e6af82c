package settings

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// shellSection is the [shell] table of config.toml.
type shellSection struct {
	WindowBounds   string   `toml:"window_bounds"`
	WindowState    string   `toml:"window_state"`
	WindowFontSize *float64 `toml:"window_font_size"`
	DockLayout     string   `toml:"dock_layout"`
}

// editorSection is the [editor] table of config.toml.
type editorSection struct {
	FontSize int    `toml:"font_size"`
	Theme    string `toml:"theme"`
}

// fileConfig is the part of config.toml this package owns.
// Other sections are preserved as raw TOML on save.
type fileConfig struct {
	Shell  shellSection  `toml:"shell"`
	Editor editorSection `toml:"editor"`
}

// Store reads and writes Settings to a TOML file.
type Store struct {
	path        string
	lock        *fileLock
	lockTimeout time.Duration
	log         *zap.Logger
}

// NewStore creates a store for the config file at path.
func NewStore(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		path:        path,
		lock:        newFileLock(path),
		lockTimeout: DefaultLockTimeout,
		log:         log.Named("settings"),
	}
}

// Path returns the config file path.
func (st *Store) Path() string {
	return st.path
}

// Load reads settings from disk. A missing or unparseable file yields
// defaults; only I/O errors are returned.
func (st *Store) Load() (*Settings, error) {
	s := New()

	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		st.log.Warn("settings file is not valid TOML, using defaults",
			zap.String("path", st.path), zap.Error(err))
		return s, nil
	}

	s.windowBounds = cfg.Shell.WindowBounds
	s.windowState = cfg.Shell.WindowState
	s.windowFontSize = cfg.Shell.WindowFontSize
	s.dockLayout = cfg.Shell.DockLayout
	s.editorFontSize = clampFontSize(cfg.Editor.FontSize)
	if cfg.Editor.Theme != "" {
		s.theme = normalizeTheme(cfg.Editor.Theme)
	}

	return s, nil
}

// Save writes s to disk, preserving sections of the file it does not own.
// Writers in other processes are serialized through a lock file; Save gives
// up with ErrLockTimeout rather than wait on a stuck peer.
func (st *Store) Save(s *Settings) error {
	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	handle, err := st.lock.lockWithin(st.lockTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := handle.Unlock(); err != nil {
			st.log.Warn("failed to release settings lock", zap.Error(err))
		}
	}()

	existingData, _ := os.ReadFile(st.path)

	var existing map[string]interface{}
	if len(existingData) > 0 {
		if err := toml.Unmarshal(existingData, &existing); err != nil {
			existing = make(map[string]interface{})
		}
	} else {
		existing = make(map[string]interface{})
	}

	s.mu.RLock()
	shell := map[string]interface{}{
		"window_bounds": s.windowBounds,
		"window_state":  s.windowState,
		"dock_layout":   s.dockLayout,
	}
	if s.windowFontSize != nil {
		shell["window_font_size"] = *s.windowFontSize
	}
	editor := map[string]interface{}{
		"font_size": s.editorFontSize,
		"theme":     s.theme,
	}
	s.mu.RUnlock()

	existing["shell"] = shell
	existing["editor"] = editor

	var buf bytes.Buffer
	if len(existingData) == 0 {
		buf.WriteString("# RoslynPad Configuration\n\n")
	}
	if err := toml.NewEncoder(&buf).Encode(existing); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	// Replace atomically via rename
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}

	st.log.Debug("settings saved", zap.String("path", st.path))
	return nil
}
