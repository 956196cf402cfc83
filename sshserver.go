package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gliderssh "github.com/gliderlabs/ssh"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"golang.org/x/crypto/ssh"
	"pkt.systems/pslog"
)

// SSHServer serves the portfolio to anyone who connects over SSH.
type SSHServer struct {
	Config   *Config
	Listener net.Listener // optional, overrides Config.SSHAddr
	logger   pslog.Logger
}

// ListenAndServe starts the SSH server and shuts down on context cancellation.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	if s.Config == nil {
		return errors.New("ssh server requires a config")
	}
	if s.logger == nil {
		s.logger = pslog.Ctx(ctx)
	}

	signer, created, err := EnsureHostKey(s.Config.HostKeyPath)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("generated ssh host key", "path", s.Config.HostKeyPath, "fingerprint", ssh.FingerprintSHA256(signer.PublicKey()))
	}

	server := &gliderssh.Server{
		Addr:        s.Config.SSHAddr,
		Handler:     s.handleSession,
		IdleTimeout: s.Config.IdleTimeout,
		MaxTimeout:  s.Config.MaxTimeout,
	}
	server.AddHostKey(signer)

	listener := s.Listener
	if listener == nil {
		listener, err = net.Listen("tcp", s.Config.SSHAddr)
		if err != nil {
			return ErrListen(s.Config.SSHAddr, err)
		}
	}
	s.logger.Info("ssh server listening", "addr", listener.Addr().String(), "fingerprint", ssh.FingerprintSHA256(signer.PublicKey()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		_ = server.Close()
		s.logger.Info("ssh server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, gliderssh.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *SSHServer) handleSession(sess gliderssh.Session) {
	remote := ""
	if sess.RemoteAddr() != nil {
		remote = sess.RemoteAddr().String()
	}
	sessionID := NewSessionID()
	log := WithSession(s.logger, sessionID, remote)

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "pty required\n")
		_ = sess.Exit(1)
		return
	}

	ctx := pslog.ContextWithLogger(sess.Context(), s.logger)
	ctx = ContextWithSession(ctx, sessionID, remote)
	log.Info("ssh session opened", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

	env := append(sess.Environ(), "TERM="+pty.Term)
	renderer := lipgloss.NewRenderer(sess)
	renderer.SetColorProfile(colorProfile(env))

	zones := zone.New()
	defer zones.Close()

	m := NewModel(ctx, s.Config, ModelOptions{
		Renderer: renderer,
		Exporter: ClipboardExporter{W: sess, Term: pty.Term},
		Zones:    zones,
	})

	sizes := forwardWindows(ctx, pty.Window, winCh)
	if err := runProgram(ctx, m, sess, sess, env, sizes); err != nil {
		log.Warn("ssh session ended with error", "err", err)
		_ = sess.Exit(1)
		return
	}
	log.Info("ssh session closed")
	_ = sess.Exit(0)
}

// forwardWindows converts pty window changes into bubbletea size messages,
// starting with the initial window
func forwardWindows(ctx context.Context, initial gliderssh.Window, winCh <-chan gliderssh.Window) <-chan tea.WindowSizeMsg {
	out := make(chan tea.WindowSizeMsg, 1)
	out <- tea.WindowSizeMsg{Width: initial.Width, Height: initial.Height}
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case w, ok := <-winCh:
				if !ok {
					return
				}
				select {
				case out <- tea.WindowSizeMsg{Width: w.Width, Height: w.Height}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// colorProfile picks a colour profile from the client's environment; the
// session is not a tty, so termenv cannot detect it
func colorProfile(env []string) termenv.Profile {
	var term, colorTerm string
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "TERM":
			term = v
		case "COLORTERM":
			colorTerm = v
		}
	}
	switch {
	case colorTerm == "truecolor" || colorTerm == "24bit":
		return termenv.TrueColor
	case term == "" || term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "256color"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}

// EnsureHostKey loads the server's host key from path, generating an
// ed25519 key on first start. created reports whether a new key was written.
// Failures are returned as a UserError naming the path.
func EnsureHostKey(path string) (signer ssh.Signer, created bool, err error) {
	if strings.TrimSpace(path) == "" {
		return nil, false, ErrHostKey(path, errors.New("no host key path configured"))
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		signer, err = ssh.ParsePrivateKey(data)
		if err != nil {
			return nil, false, ErrHostKey(path, fmt.Errorf("parse host key: %w", err))
		}
		return signer, false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, false, ErrHostKey(path, err)
	}

	signer, err = generateHostKey(path)
	if err != nil {
		return nil, false, ErrHostKey(path, err)
	}
	return signer, true, nil
}

// generateHostKey writes a fresh PEM encoded ed25519 key, readable only by
// the owner
func generateHostKey(path string) (ssh.Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, "termfolio host key")
	if err != nil {
		return nil, fmt.Errorf("marshal host key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if err := saveToFile(path, string(pem.EncodeToMemory(block))); err != nil {
		return nil, err
	}
	return ssh.NewSignerFromKey(priv)
}
