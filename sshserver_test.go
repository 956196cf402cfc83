package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gliderssh "github.com/gliderlabs/ssh"
	"github.com/muesli/termenv"
	"golang.org/x/crypto/ssh"
)

func TestEnsureHostKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "host_ed25519")

	first, created, err := EnsureHostKey(path)
	if err != nil {
		t.Fatalf("EnsureHostKey() error = %v", err)
	}
	if !created {
		t.Error("first call should generate a key")
	}
	if first.PublicKey().Type() != ssh.KeyAlgoED25519 {
		t.Errorf("key type = %s, want ed25519", first.PublicKey().Type())
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	second, created, err := EnsureHostKey(path)
	if err != nil {
		t.Fatalf("EnsureHostKey() reload error = %v", err)
	}
	if created {
		t.Error("existing key should not be regenerated")
	}
	if !bytes.Equal(first.PublicKey().Marshal(), second.PublicKey().Marshal()) {
		t.Error("existing host key should be reused")
	}
}

func TestEnsureHostKeyErrors(t *testing.T) {
	var userErr *UserError
	if _, _, err := EnsureHostKey("  "); !errors.As(err, &userErr) {
		t.Errorf("empty path error = %v, want UserError", err)
	}

	path := filepath.Join(t.TempDir(), "corrupt")
	if err := os.WriteFile(path, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err := EnsureHostKey(path)
	if !errors.As(err, &userErr) || !strings.Contains(err.Error(), "parse host key") {
		t.Errorf("error = %v, want parse failure", err)
	}
	if !strings.Contains(userErr.Message, path) {
		t.Errorf("Message = %q, want the key path", userErr.Message)
	}
}

func TestColorProfile(t *testing.T) {
	tests := []struct {
		name string
		env  []string
		want termenv.Profile
	}{
		{"truecolor", []string{"TERM=xterm-256color", "COLORTERM=truecolor"}, termenv.TrueColor},
		{"256 colours", []string{"TERM=xterm-256color"}, termenv.ANSI256},
		{"basic", []string{"TERM=xterm"}, termenv.ANSI},
		{"dumb", []string{"TERM=dumb"}, termenv.Ascii},
		{"no term", nil, termenv.Ascii},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colorProfile(tt.env); got != tt.want {
				t.Errorf("colorProfile(%q) = %v, want %v", tt.env, got, tt.want)
			}
		})
	}
}

func TestForwardWindows(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	winCh := make(chan gliderssh.Window, 1)
	out := forwardWindows(ctx, gliderssh.Window{Width: 80, Height: 24}, winCh)

	if got := <-out; got.Width != 80 || got.Height != 24 {
		t.Errorf("initial size = %+v", got)
	}
	winCh <- gliderssh.Window{Width: 120, Height: 40}
	if got := <-out; got.Width != 120 || got.Height != 40 {
		t.Errorf("forwarded size = %+v", got)
	}
	close(winCh)
	select {
	case _, ok := <-out:
		if ok {
			t.Error("output should close with the input")
		}
	case <-time.After(time.Second):
		t.Error("output did not close")
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func expectOutput(t *testing.T, out *lockedBuffer, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q", want)
}

func startTestSSHServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())

	cfg := DefaultConfig()
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")
	server := &SSHServer{Config: cfg, Listener: ln}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = server.ListenAndServe(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ln.Addr().String()
}

func dialTestSSH(t *testing.T, addr string) *ssh.Client {
	t.Helper()
	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            "visitor",
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSSHSessionRequiresPty(t *testing.T) {
	addr := startTestSSHServer(t)
	client := dialTestSSH(t, addr)

	session, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	out, _ := session.CombinedOutput("")
	if !strings.Contains(string(out), "pty required") {
		t.Errorf("output = %q, want pty required", out)
	}
}

func TestSSHSession(t *testing.T) {
	if testing.Short() {
		t.Skip("ssh round trip")
	}
	addr := startTestSSHServer(t)
	client := dialTestSSH(t, addr)

	session, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	if err := session.RequestPty("xterm-256color", 40, 100, ssh.TerminalModes{}); err != nil {
		t.Fatal(err)
	}
	stdin, err := session.StdinPipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Shell(); err != nil {
		t.Fatal(err)
	}

	output := &lockedBuffer{}
	go func() {
		_, _ = io.Copy(output, stdout)
	}()

	expectOutput(t, output, "Quadeer's Terminal", 5*time.Second)

	if _, err := fmt.Fprint(stdin, "help\r"); err != nil {
		t.Fatal(err)
	}
	expectOutput(t, output, "Available commands:", 5*time.Second)

	if _, err := fmt.Fprint(stdin, "\x03\x03"); err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()
	select {
	case <-time.After(5 * time.Second):
		t.Fatal("session did not close after double Ctrl+C")
	case <-done:
	}
}
