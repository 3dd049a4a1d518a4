package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"gitlab.com/tozd/go/errors"

	"github.com/zenone/crate/internal/operation"
	"github.com/zenone/crate/internal/renamer"
	"github.com/zenone/crate/internal/undo"
)

func writeTrack(t *testing.T, dir, name string, frames map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("\xff\xfbaudio-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("opening tag: %v", err)
	}
	defer tag.Close()
	for id, value := range frames {
		tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
	}
	if err := tag.Save(); err != nil {
		t.Fatalf("saving tag: %v", err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestExecuteThenUndo_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	one := writeTrack(t, dir, "one.mp3", map[string]string{"TPE1": "Jeff Mills", "TIT2": "The Bells"})
	two := writeTrack(t, dir, "two.mp3", map[string]string{"TPE1": "Jeff Mills", "TIT2": "Changes of Life"})

	e := New(Options{})
	status, err := e.Execute(context.Background(), renamer.Request{
		Path:     dir,
		Template: "{artist} - {title}",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if status.Renamed != 2 {
		t.Fatalf("renamed = %d, want 2", status.Renamed)
	}
	if status.UndoSessionID == "" {
		t.Fatal("no undo session recorded")
	}
	if exists(one) || exists(two) {
		t.Fatal("sources still present after execute")
	}

	res, err := e.Undo(status.UndoSessionID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if res.Restored != 2 || res.Failed != 0 {
		t.Errorf("undo result = %d restored, %d failed; want 2, 0", res.Restored, res.Failed)
	}
	if !exists(one) || !exists(two) {
		t.Errorf("files not restored to original paths")
	}
}

func TestPreview_RecordsNothing(t *testing.T) {
	dir := t.TempDir()
	one := writeTrack(t, dir, "one.mp3", map[string]string{"TPE1": "UR", "TIT2": "Transition"})

	e := New(Options{})
	status, err := e.Preview(context.Background(), renamer.Request{
		Path:     dir,
		Template: "{artist} - {title}",
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	if status.Renamed != 1 {
		t.Errorf("preview reported %d would-be renames, want 1", status.Renamed)
	}
	if status.UndoSessionID != "" {
		t.Errorf("preview recorded undo session %q", status.UndoSessionID)
	}
	if !exists(one) {
		t.Errorf("preview moved a file")
	}
}

func TestExecute_DefaultTemplate(t *testing.T) {
	dir := t.TempDir()
	writeTrack(t, dir, "one.mp3", map[string]string{"TPE1": "Green Velvet", "TIT2": "Flash"})

	e := New(Options{DefaultTemplate: "{artist} - {title}"})
	status, err := e.Execute(context.Background(), renamer.Request{Path: dir})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if status.Renamed != 1 {
		t.Fatalf("renamed = %d, want 1", status.Renamed)
	}
	if !exists(filepath.Join(dir, "Green Velvet - Flash.mp3")) {
		t.Errorf("default template not applied")
	}
}

func TestExecute_SkippedBatchRecordsNoUndo(t *testing.T) {
	dir := t.TempDir()
	frames := map[string]string{"TPE1": "Laurent Garnier", "TIT2": "Crispy Bacon"}
	writeTrack(t, dir, "Laurent Garnier - Crispy Bacon.mp3", frames)

	e := New(Options{})
	status, err := e.Execute(context.Background(), renamer.Request{
		Path:     dir,
		Template: "{artist} - {title}",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if status.Renamed != 0 || status.Skipped != 1 {
		t.Fatalf("status = %d renamed, %d skipped; want 0, 1", status.Renamed, status.Skipped)
	}
	if status.UndoSessionID != "" {
		t.Errorf("all-skipped batch recorded undo session %q", status.UndoSessionID)
	}
}

func waitTerminal(t *testing.T, e *Engine, id string) operation.Operation {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if op, ok := e.Poll(id); ok && op.State != operation.StateRunning {
			return op
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("operation %s never finished", id)
	return operation.Operation{}
}

func TestStartAsync_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	writeTrack(t, dir, "one.mp3", map[string]string{"TPE1": "Carl Craig", "TIT2": "At Les"})

	e := New(Options{})
	id := e.StartAsync(renamer.Request{Path: dir, Template: "{artist} - {title}"})
	if id == "" {
		t.Fatal("StartAsync returned empty id")
	}

	op := waitTerminal(t, e, id)
	if op.State != operation.StateCompleted {
		t.Fatalf("state = %s, want %s", op.State, operation.StateCompleted)
	}
	if op.Status == nil || op.Status.Renamed != 1 {
		t.Fatalf("terminal status = %+v, want 1 rename", op.Status)
	}
	if op.Status.UndoSessionID == "" {
		t.Error("async batch recorded no undo session")
	}
	if !exists(filepath.Join(dir, "Carl Craig - At Les.mp3")) {
		t.Errorf("async batch did not rename the file")
	}

	if !e.ClearOperation(id) {
		t.Error("ClearOperation of finished batch returned false")
	}
	if _, ok := e.Poll(id); ok {
		t.Error("operation still visible after clear")
	}
}

func TestStartAsync_InvalidTemplateBecomesErrorState(t *testing.T) {
	dir := t.TempDir()
	writeTrack(t, dir, "one.mp3", map[string]string{"TPE1": "Claro Intelecto"})

	e := New(Options{})
	id := e.StartAsync(renamer.Request{Path: dir, Template: "{bogus}"})

	op := waitTerminal(t, e, id)
	if op.State != operation.StateError {
		t.Errorf("state = %s, want %s", op.State, operation.StateError)
	}
	if op.Err == nil {
		t.Error("error-state operation has nil Err")
	}
}

func TestCancelOperation_Unknown(t *testing.T) {
	e := New(Options{})
	if e.CancelOperation("nope") {
		t.Error("CancelOperation of unknown id returned true")
	}
}

func TestUndo_UnknownSession(t *testing.T) {
	e := New(Options{})
	if _, err := e.Undo("nope"); !errors.Is(err, undo.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestValidateTemplate(t *testing.T) {
	e := New(Options{})

	good := e.ValidateTemplate("{artist} - {title}")
	if !good.Valid {
		t.Errorf("valid template rejected: %+v", good)
	}

	bad := e.ValidateTemplate("{bogus}")
	if bad.Valid {
		t.Error("invalid template accepted")
	}
	if len(bad.InvalidTokens) != 1 || bad.InvalidTokens[0] != "bogus" {
		t.Errorf("InvalidTokens = %v, want [bogus]", bad.InvalidTokens)
	}
}
