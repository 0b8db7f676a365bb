package app

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type fatalRecorder struct {
	clipboard string
	title     string
	message   string
	exitCode  int
	order     []string
}

func (r *fatalRecorder) handler() *FatalHandler {
	r.exitCode = -1
	return &FatalHandler{
		WriteClipboard: func(text string) error {
			r.clipboard = text
			r.order = append(r.order, "clipboard")
			return nil
		},
		ShowDialog: func(title, message string) {
			r.title, r.message = title, message
			r.order = append(r.order, "dialog")
		},
		Exit: func(code int) {
			r.exitCode = code
			r.order = append(r.order, "exit")
		},
	}
}

func TestFatalHandle(t *testing.T) {
	rec := &fatalRecorder{}
	h := rec.handler()
	h.OnExit(func() { rec.order = append(rec.order, "cleanup-1") })
	h.OnExit(func() { rec.order = append(rec.order, "cleanup-2") })

	h.Handle(errors.New("disk on fire"))

	want := []string{"clipboard", "dialog", "cleanup-2", "cleanup-1", "exit"}
	if strings.Join(rec.order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %q, want %q", rec.order, want)
	}
	if rec.exitCode != 1 {
		t.Errorf("exit code = %d, want 1", rec.exitCode)
	}
	if rec.title != fatalTitle {
		t.Errorf("dialog title = %q, want %q", rec.title, fatalTitle)
	}
	if !strings.Contains(rec.message, "disk on fire") || !strings.Contains(rec.message, "clipboard") {
		t.Errorf("dialog message = %q", rec.message)
	}

	var diag Diagnostic
	if err := yaml.Unmarshal([]byte(rec.clipboard), &diag); err != nil {
		t.Fatalf("clipboard is not a YAML diagnostic: %v", err)
	}
	if diag.Message != "disk on fire" {
		t.Errorf("diagnostic message = %q", diag.Message)
	}
	if len(diag.Stack) == 0 {
		t.Errorf("diagnostic has no stack")
	}
}

func TestFatalRecover(t *testing.T) {
	rec := &fatalRecorder{}
	h := rec.handler()

	func() {
		defer h.Recover()
		panic("boom")
	}()

	if rec.exitCode != 1 {
		t.Fatalf("exit code = %d, want 1", rec.exitCode)
	}
	var diag Diagnostic
	if err := yaml.Unmarshal([]byte(rec.clipboard), &diag); err != nil {
		t.Fatalf("clipboard is not a YAML diagnostic: %v", err)
	}
	if diag.Message != "panic: boom" {
		t.Errorf("diagnostic message = %q, want %q", diag.Message, "panic: boom")
	}
	found := false
	for _, frame := range diag.Stack {
		if strings.Contains(frame, "TestFatalRecover") {
			found = true
		}
	}
	if !found {
		t.Errorf("stack does not include the panicking test: %q", diag.Stack)
	}
}

func TestFatalClipboardFailure(t *testing.T) {
	rec := &fatalRecorder{}
	h := rec.handler()
	h.WriteClipboard = func(string) error { return errors.New("no clipboard") }

	h.Handle(errors.New("bad"))

	if strings.Contains(rec.message, "clipboard") {
		t.Errorf("dialog claims a clipboard copy that failed: %q", rec.message)
	}
	if rec.exitCode != 1 {
		t.Errorf("exit code = %d, want 1", rec.exitCode)
	}
}
