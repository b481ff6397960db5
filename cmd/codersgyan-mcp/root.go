package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	mcp "github.com/codersgyan/lms-mcp"
	"github.com/codersgyan/lms-mcp/internal/logging"
	"github.com/codersgyan/lms-mcp/lms"
	"github.com/codersgyan/lms-mcp/middleware"
)

type options struct {
	envFile        string
	logLevel       string
	logFile        string
	timeout        time.Duration
	rate           int
	burst          int
	maxRequestSize int64
	strictArgs     bool
	otel           bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "codersgyan-mcp",
		Short:         "Serve the Coders Gyan LMS over the Model Context Protocol",
		Long:          "codersgyan-mcp speaks MCP on stdin/stdout. It exposes the refund policy, greeting and student list prompts, and a tool listing enrolled students. Logs go to stderr.",
		Version:       lms.Info.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(opts.envFile, cmd.Flags().Changed("env-file"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.envFile, "env-file", ".env", "Environment file to load before reading LOG_LEVEL and LOG_FILE")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (default from LOG_LEVEL, else info)")
	f.StringVar(&opts.logFile, "log-file", "", "Also append logs to this file (default from LOG_FILE)")
	f.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Per-request timeout, 0 disables")
	f.IntVar(&opts.rate, "rate", 0, "Invocations per second allowed per capability, 0 disables")
	f.IntVar(&opts.burst, "burst", 0, "Rate limit burst (default equals --rate)")
	f.Int64Var(&opts.maxRequestSize, "max-request-size", middleware.MB, "Largest accepted request params in bytes, 0 disables")
	f.BoolVar(&opts.strictArgs, "strict-args", false, "Reject arguments a capability does not declare")
	f.BoolVar(&opts.otel, "otel", false, "Export traces and metrics to stderr")

	return cmd
}

// loadEnv reads an env file without overriding variables already set. A
// missing default file is not an error.
func loadEnv(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (o *options) validate() error {
	switch {
	case o.timeout < 0:
		return errors.New("--timeout must not be negative")
	case o.rate < 0:
		return errors.New("--rate must not be negative")
	case o.burst < 0:
		return errors.New("--burst must not be negative")
	case o.maxRequestSize < 0:
		return errors.New("--max-request-size must not be negative")
	}
	return nil
}

func run(ctx context.Context, cmd *cobra.Command, opts *options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	level, err := resolveLevel(opts.logLevel)
	if err != nil {
		return err
	}

	var logOut io.Writer = cmd.ErrOrStderr()
	logFile := opts.logFile
	if logFile == "" {
		logFile = strings.TrimSpace(os.Getenv("LOG_FILE"))
	}
	if logFile != "" {
		f, err := logging.OpenFile(logFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = io.MultiWriter(logOut, f)
	}
	logger := logging.New(logOut, level).With(mcp.LogF("server", lms.Info.Name))

	stack := mcp.StackConfig{
		Logger:         logger,
		Timeout:        opts.timeout,
		MaxRequestSize: opts.maxRequestSize,
		Rate:           opts.rate,
		Burst:          opts.burst,
	}
	if opts.otel {
		tel, err := newTelemetry(cmd.ErrOrStderr(), lms.Info)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				logger.Warn("telemetry shutdown failed", mcp.LogF("error", err))
			}
		}()
		stack.Telemetry = tel.Options()
	}

	serverOpts := []mcp.Option{mcp.WithStack(stack)}
	if opts.strictArgs {
		serverOpts = append(serverOpts, mcp.WithStrictArguments())
	}
	srv, err := mcp.NewServer(serverOpts...)
	if err != nil {
		return err
	}

	logger.Info("codersgyan MCP Server running on stdio",
		mcp.LogF("version", lms.Info.Version),
		mcp.LogF("log_level", level.String()),
		mcp.LogF("timeout", opts.timeout),
		mcp.LogF("rate", opts.rate),
		mcp.LogF("otel", opts.otel),
	)

	err = mcp.ServeStdio(ctx, srv,
		mcp.WithStdin(cmd.InOrStdin()),
		mcp.WithStdout(cmd.OutOrStdout()),
		mcp.WithStderr(cmd.ErrOrStderr()),
	)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("stdin closed")
	return nil
}

func resolveLevel(flag string) (logrus.Level, error) {
	if flag != "" {
		return logging.ParseLevel(flag)
	}
	return logging.LevelFromEnv(os.Getenv)
}
