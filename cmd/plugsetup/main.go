package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"plugsetup/internal/core"
	"plugsetup/internal/host"
	"plugsetup/internal/platform"
	"plugsetup/internal/providers"
	"plugsetup/internal/repository"
	"plugsetup/pkg/schema"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "plugsetup",
		Short: "Conversational plugin setup with transactional rollback",
		Long: "plugsetup walks users through configuring a plugin: collecting values,\n" +
			"installing dependencies, and validating credentials. Every side effect is\n" +
			"recorded so an abandoned setup rolls back cleanly.",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSetupCmd())
	return root
}

// deps is the wired object graph shared by both commands.
type deps struct {
	cfg        *core.Config
	logger     core.Logger
	notifier   *core.ChannelNotifier
	dispatcher *core.Dispatcher
}

func buildDeps() (*deps, error) {
	cfg, err := core.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := core.NewLogger(cfg.LogLevel)

	configs := repository.NewFileConfigStore(cfg.ConfigPath)
	installer := platform.NewClient(cfg.PlatformBaseURL, logger)
	creds := providers.NewChecker(logger)
	notifier := core.NewChannelNotifier(cfg.EventBuffer, logger)

	dispatcher := core.NewDispatcher(
		core.NewSessionStore(),
		configs,
		installer,
		installer, // same client serves install and health check
		creds,
		notifier,
		logger,
	)

	return &deps{cfg: cfg, logger: logger, notifier: notifier, dispatcher: dispatcher}, nil
}

// drainEvents logs lifecycle notifications until the context ends.
func drainEvents(ctx context.Context, d *deps) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.notifier.Events():
			d.logger.Info("setup event",
				"event_id", event.ID,
				"name", event.Name,
				"payload", event.Payload,
			)
		}
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the setup HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}

			lock := repository.NewFileLock(d.cfg.LockPath, "serve")
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					d.logger.Warn("failed to release lock", "error", err.Error())
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go drainEvents(ctx, d)

			server := &http.Server{
				Addr:              d.cfg.ListenAddr,
				Handler:           host.NewRouter(d.dispatcher, d.logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				d.logger.Info("listening", "addr", d.cfg.ListenAddr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
				d.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}
}

func newSetupCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "setup <plugin-id>",
		Short: "Run an interactive setup for one plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pluginID := args[0]

			data, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("read schema file: %w", err)
			}
			var configSchema schema.ConfigSchema
			if err := yaml.Unmarshal(data, &configSchema); err != nil {
				return fmt.Errorf("parse schema file: %w", err)
			}

			d, err := buildDeps()
			if err != nil {
				return err
			}

			lock := repository.NewFileLock(d.cfg.LockPath, "cli")
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					d.logger.Warn("failed to release lock", "error", err.Error())
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go drainEvents(ctx, d)

			sessionID, err := schema.NewSessionID()
			if err != nil {
				return fmt.Errorf("generate session id: %w", err)
			}

			wizard := core.NewSetupWizard(d.dispatcher, cmd.InOrStdin(), cmd.OutOrStdout())
			return wizard.Run(ctx, sessionID, pluginID, configSchema)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to the plugin's setup schema (YAML)")
	if err := cmd.MarkFlagRequired("schema"); err != nil {
		panic(err)
	}
	return cmd
}
