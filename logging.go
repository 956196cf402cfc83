package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"pkt.systems/pslog"
)

type logContextKey int

const sessionKey logContextKey = iota

// NewSessionID returns a fresh visitor session id
func NewSessionID() string {
	return uuid.NewString()
}

// WithSession annotates the logger with visitor session metadata.
func WithSession(log pslog.Logger, sessionID, remote string) pslog.Logger {
	if sessionID != "" {
		log = log.With("session", sessionID)
	}
	if remote != "" {
		log = log.With("remote", remote)
	}
	return log
}

// ContextWithSession attaches a session-scoped logger and the session marker.
func ContextWithSession(ctx context.Context, sessionID, remote string) context.Context {
	if id := SessionFromContext(ctx); id != "" && id == sessionID {
		return ctx
	}
	log := WithSession(pslog.Ctx(ctx), sessionID, remote)
	ctx = pslog.ContextWithLogger(ctx, log)
	return context.WithValue(ctx, sessionKey, sessionID)
}

// SessionFromContext returns the session id stored on ctx, if any.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

// NewFileLogger returns a structured logger for the local TUI. The terminal
// belongs to the UI, so logs go to path or are discarded when path is empty.
func NewFileLogger(path string) (pslog.Logger, io.Closer, error) {
	if path == "" {
		return pslog.NewWithOptions(io.Discard, pslog.Options{
			Mode:     pslog.ModeStructured,
			NoColor:  true,
			MinLevel: pslog.InfoLevel,
		}), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}
	return pslog.NewWithOptions(f, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.DebugLevel,
	}), f, nil
}
