package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.DefaultTemplate == "" {
		t.Error("default template is empty")
	}
	if s.Workers <= 0 {
		t.Errorf("workers = %d, want > 0", s.Workers)
	}
	if s.UndoTTL() != 15*time.Minute {
		t.Errorf("undo ttl = %v, want 15m", s.UndoTTL())
	}
	if len(s.Extensions) == 0 {
		t.Error("no default extensions")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	s := DefaultSettings()
	s.DefaultTemplate = "{camelot_bpm} {artist} - {title}"
	s.Workers = 8
	s.Recursive = true
	s.IncludePatterns = []string{"crates/**/*.mp3"}
	s.UndoTTLMinutes = 30

	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, s) {
		t.Errorf("round trip mismatch:\nsaved  %+v\nloaded %+v", s, loaded)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded, DefaultSettings()) {
		t.Errorf("missing file did not yield defaults: %+v", loaded)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("workers = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Workers != 12 {
		t.Errorf("workers = %d, want 12", loaded.Workers)
	}
	if loaded.DefaultTemplate != DefaultSettings().DefaultTemplate {
		t.Errorf("unset field lost its default: %q", loaded.DefaultTemplate)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("workers = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load of malformed file succeeded")
	}
}

func TestToScanner(t *testing.T) {
	s := DefaultSettings()
	s.Extensions = []string{".mp3"}
	s.IncludePatterns = []string{"house/**"}

	sc := s.ToScanner()
	if !reflect.DeepEqual(sc.Extensions, s.Extensions) {
		t.Errorf("scanner extensions = %v, want %v", sc.Extensions, s.Extensions)
	}
	if !reflect.DeepEqual(sc.Include, s.IncludePatterns) {
		t.Errorf("scanner include = %v, want %v", sc.Include, s.IncludePatterns)
	}
}

func TestToExecutorOptions(t *testing.T) {
	s := DefaultSettings()
	s.Workers = 7
	s.MaxStemLength = 99

	opts := s.ToExecutorOptions()
	if opts.Workers != 7 || opts.MaxStemLength != 99 {
		t.Errorf("options = workers %d, stem %d; want 7, 99", opts.Workers, opts.MaxStemLength)
	}
	if opts.Scanner == nil {
		t.Error("options carry no scanner")
	}
}
