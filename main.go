package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Debug("termfolio command failed")
		fmt.Fprint(os.Stderr, FormatUserError(err))
		return 1
	}
	return 0
}

type rootOptions struct {
	configPath string
	theme      string
}

func (o *rootOptions) load() (*Config, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.theme != "" {
		if _, ok := ThemePresets[o.theme]; !ok {
			return nil, &UserError{
				Message:    fmt.Sprintf("Unknown theme %q", o.theme),
				Suggestion: "Available themes: " + strings.Join(AvailableThemes(), ", "),
			}
		}
		cfg.ThemeName = o.theme
		cfg.Theme = ResolveTheme(o.theme)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "termfolio",
		Short:         "Terminal-style portfolio with a built-in Vim editor",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			// The terminal belongs to the UI from here on
			logger, closer, err := NewFileLogger(cfg.LogFile)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			ctx := pslog.ContextWithLogger(cmd.Context(), logger)
			ctx = ContextWithSession(ctx, NewSessionID(), "local")
			pslog.Ctx(ctx).Info("local session started", "theme", cfg.ThemeName, "version", Version)
			return StartTUI(ctx, cfg)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.termfolio/config.yaml)")
	root.PersistentFlags().StringVar(&opts.theme, "theme", "", "colour theme ("+strings.Join(AvailableThemes(), ", ")+")")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio over SSH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.SSHAddr = addr
			}
			logger := pslog.Ctx(cmd.Context())
			logger.Info("starting ssh server", "addr", cfg.SSHAddr, "theme", cfg.ThemeName,
				"idle_timeout", cfg.IdleTimeout.String(), "max_timeout", cfg.MaxTimeout.String())
			srv := &SSHServer{Config: cfg}
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ssh.addr)")
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				p, err := SettingsPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return &UserError{
					Message:    fmt.Sprintf("Settings file %s already exists", path),
					Suggestion: "Use --force to overwrite it.",
				}
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return ErrSettings(path, err)
			}
			if err := SaveSettings(DefaultSettings(), path); err != nil {
				return ErrSettings(path, err)
			}
			pslog.Ctx(cmd.Context()).Info("settings written", "path", path)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				p, err := SettingsPath()
				if err != nil {
					return err
				}
				path = p
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "termfolio %s (built %s)\n", Version, BuildDate); err != nil {
				return err
			}
			if !check {
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			latest, available, err := CheckForUpdate(ctx, Version)
			if err != nil {
				return fmt.Errorf("update check: %w", err)
			}
			switch {
			case latest == "":
				_, err = fmt.Fprintln(out, "Development build, skipping update check")
			case available:
				_, err = fmt.Fprintf(out, "Update available: %s -> %s\nRun: %s\n", Version, latest, UpdateCommand)
			default:
				_, err = fmt.Fprintln(out, "You are running the latest version")
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
