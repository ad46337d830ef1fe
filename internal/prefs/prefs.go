// Package prefs handles stockboard user preferences persistence.
// Preferences are stored in ~/.config/stockboard/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Theme values. An empty Theme means the terminal background decides.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Prefs holds user preferences for stockboard.
type Prefs struct {
	Theme          string   `toml:"theme"`
	HiddenProducts []string `toml:"hidden_products"`
}

const defaultPrefsPath = "~/.config/stockboard/prefs.toml"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path. A missing file yields zero
// prefs and no error. An unreadable or malformed file also yields zero prefs,
// together with the error so the caller can report it.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{}, fmt.Errorf("resolve path: %w", err)
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Prefs{}, nil
		}
		return Prefs{}, fmt.Errorf("open prefs: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Prefs{}, fmt.Errorf("read prefs: %w", err)
	}

	var prefs Prefs
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{}, fmt.Errorf("parse prefs %s: %w", resolved, err)
	}

	prefs.Theme = normalizeTheme(prefs.Theme)
	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	p.Theme = normalizeTheme(p.Theme)
	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// IsHidden reports whether product was deselected in the product picker.
func (p Prefs) IsHidden(product string) bool {
	return slices.Contains(p.HiddenProducts, product)
}

// VisibleProducts filters products down to those not hidden, keeping order.
func (p Prefs) VisibleProducts(products []string) []string {
	out := make([]string, 0, len(products))
	for _, name := range products {
		if !p.IsHidden(name) {
			out = append(out, name)
		}
	}
	return out
}

func normalizeTheme(theme string) string {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case ThemeLight:
		return ThemeLight
	case ThemeDark:
		return ThemeDark
	default:
		return ""
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
