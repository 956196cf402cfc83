package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Exporter delivers the "Save File" artifact to the visitor
type Exporter interface {
	// Export delivers content under name and describes where it went
	Export(ctx context.Context, name, content string) (string, error)
}

// FileExporter writes artifacts into a directory on the local machine
type FileExporter struct {
	Dir string // "" = working directory; created on first export
}

func (e FileExporter) Export(ctx context.Context, name, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.Dir != "" {
		if err := os.MkdirAll(e.Dir, 0o700); err != nil {
			return "", ErrExport(name, err)
		}
	}
	path := filepath.Join(e.Dir, filepath.Base(name))
	if err := saveToFile(path, content); err != nil {
		return "", ErrExport(name, err)
	}
	return "Saved to " + path, nil
}

// ClipboardExporter copies artifacts to the terminal clipboard with OSC 52.
// It is the only delivery that reaches an SSH visitor's machine.
type ClipboardExporter struct {
	W    io.Writer
	Term string // TERM of the client, used to pick multiplexer wrapping
}

func (e ClipboardExporter) Export(ctx context.Context, name, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.W == nil {
		return "", ErrExport(name, fmt.Errorf("no terminal attached"))
	}
	seq := osc52.New(content)
	switch {
	case strings.HasPrefix(e.Term, "tmux"):
		seq = seq.Tmux()
	case strings.HasPrefix(e.Term, "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(e.W); err != nil {
		return "", ErrExport(name, err)
	}
	return fmt.Sprintf("Copied %s to clipboard (%d bytes)", name, len(content)), nil
}

// NewExporter returns the exporter configured for local sessions
func NewExporter(cfg *Config, w io.Writer, term string) Exporter {
	if cfg.ExportMode == ExportModeClipboard {
		return ClipboardExporter{W: w, Term: term}
	}
	return FileExporter{Dir: cfg.ExportDir}
}
