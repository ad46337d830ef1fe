package prefs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "" {
		t.Fatalf("Theme = %q, want empty", p.Theme)
	}
	if len(p.HiddenProducts) != 0 {
		t.Fatalf("HiddenProducts = %v, want none", p.HiddenProducts)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "stockboard")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	body := "theme = \"dark\"\nhidden_products = [\"コラボロゴTシャツ\"]\n"
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != ThemeDark {
		t.Fatalf("Theme = %q, want %q", p.Theme, ThemeDark)
	}
	if !p.IsHidden("コラボロゴTシャツ") {
		t.Fatalf("HiddenProducts = %v, want the T-shirt hidden", p.HiddenProducts)
	}
}

func TestLoad_NormalizesTheme(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	for body, want := range map[string]string{
		"theme = \" LIGHT \"\n": ThemeLight,
		"theme = \"Dracula\"\n": "",
		"theme = \"\"\n":        "",
	} {
		if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		p, err := Load(prefsFile)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if p.Theme != want {
			t.Fatalf("Theme for %q = %q, want %q", body, p.Theme, want)
		}
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	p := Prefs{Theme: ThemeLight, HiddenProducts: []string{"a", "b"}}
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != ThemeLight {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, ThemeLight)
	}
	if !slices.Equal(loaded.HiddenProducts, []string{"a", "b"}) {
		t.Fatalf("HiddenProducts = %v", loaded.HiddenProducts)
	}
}

func TestLoad_InvalidTOMLReportsError(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err == nil {
		t.Fatalf("Load returned nil error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "parse prefs") {
		t.Fatalf("Load error = %v, want parse prefs", err)
	}
	if p.Theme != "" || p.HiddenProducts != nil {
		t.Fatalf("Load = %+v, want zero prefs", p)
	}
}

func TestLoad_UnreadablePathReportsError(t *testing.T) {
	dir := t.TempDir()

	p, err := Load(dir)
	if err == nil {
		t.Fatalf("Load(directory) returned nil error")
	}
	if p.Theme != "" || p.HiddenProducts != nil {
		t.Fatalf("Load = %+v, want zero prefs", p)
	}
}

func TestVisibleProducts_KeepsOrder(t *testing.T) {
	p := Prefs{HiddenProducts: []string{"b"}}
	got := p.VisibleProducts([]string{"c", "b", "a"})
	if !slices.Equal(got, []string{"c", "a"}) {
		t.Fatalf("VisibleProducts = %v, want [c a]", got)
	}
}
