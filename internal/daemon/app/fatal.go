package app

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/go-stack/stack"
	"github.com/sqweek/dialog"
	"gopkg.in/yaml.v3"

	"github.com/cmdtray/cmdtray/internal/buildinfo"
)

const fatalTitle = "cmdtray failed to start"

// Diagnostic is the payload copied to the clipboard on a fatal error.
type Diagnostic struct {
	Message  string    `yaml:"message"`
	Stack    []string  `yaml:"stack"`
	Version  string    `yaml:"version"`
	Platform string    `yaml:"platform"`
	Time     time.Time `yaml:"time"`
}

// FatalHandler reports an unrecoverable startup error and terminates the
// process. There is no retry.
type FatalHandler struct {
	WriteClipboard func(text string) error
	ShowDialog     func(title, message string)
	Exit           func(code int)

	cleanup []func()
}

// NewFatalHandler returns a handler using the system clipboard, a native
// error dialog and os.Exit.
func NewFatalHandler() *FatalHandler {
	return &FatalHandler{
		WriteClipboard: clipboard.WriteAll,
		ShowDialog: func(title, message string) {
			dialog.Message("%s", message).Title(title).Error()
		},
		Exit: os.Exit,
	}
}

// OnExit registers fn to run before the process exits.
func (h *FatalHandler) OnExit(fn func()) {
	h.cleanup = append(h.cleanup, fn)
}

// Handle copies diagnostics to the clipboard, shows a blocking error dialog
// and exits with status 1.
func (h *FatalHandler) Handle(err error) {
	h.handle(err.Error(), captureStack())
}

// Recover turns a panic into a fatal error. Use it as a deferred call.
func (h *FatalHandler) Recover() {
	if r := recover(); r != nil {
		h.handle(fmt.Sprintf("panic: %v", r), captureStack())
	}
}

func (h *FatalHandler) handle(message string, trace []string) {
	log.Printf("Fatal: %s", message)

	diag := Diagnostic{
		Message:  message,
		Stack:    trace,
		Version:  buildinfo.Version,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Time:     time.Now().UTC(),
	}

	clipped := false
	if payload, err := yaml.Marshal(diag); err != nil {
		log.Printf("Failed to marshal diagnostic: %v", err)
	} else if h.WriteClipboard != nil {
		if err := h.WriteClipboard(string(payload)); err != nil {
			log.Printf("Failed to copy diagnostic to clipboard: %v", err)
		} else {
			clipped = true
		}
	}

	if h.ShowDialog != nil {
		h.ShowDialog(fatalTitle, fatalMessage(message, clipped))
	}

	for i := len(h.cleanup) - 1; i >= 0; i-- {
		h.cleanup[i]()
	}
	if h.Exit != nil {
		h.Exit(1)
	}
}

func fatalMessage(message string, clipped bool) string {
	var b strings.Builder
	b.WriteString("cmdtray hit an error while starting and will close.\n\n")
	b.WriteString(message)
	if clipped {
		b.WriteString("\n\nDiagnostic details were copied to the clipboard.")
	}
	return b.String()
}

// captureStack returns the current goroutine's stack, one frame per entry.
// Called from a deferred Recover it still includes the panicking frames.
func captureStack() []string {
	trace := stack.Trace().TrimRuntime()
	frames := make([]string, 0, len(trace))
	for _, call := range trace {
		frames = append(frames, fmt.Sprintf("%+n %+v", call, call))
	}
	return frames
}
