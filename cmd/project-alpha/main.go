package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/project-alpha/internal/app"
	"github.com/a3tai/project-alpha/internal/config"
	"github.com/a3tai/project-alpha/internal/mcp"
)

var version = config.DefaultVersion // overridden by build flags

// setupLogging configures logrus for the run mode. Logs always go to stderr; stdio
// mode keeps them off entirely unless debug is enabled so the protocol stream stays clean.
func setupLogging(cfg *config.Config) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.IsStdioMode() && !cfg.IsDebug() {
		logrus.SetOutput(io.Discard)
	}
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logrus.WithField("signal", sig.String()).Info("initiating graceful shutdown")
		cancel()

		if err := <-serverErrCh; err != nil {
			logrus.Fatalf("Server shutdown with error: %v", err)
		}

	case err := <-serverErrCh:
		if err != nil {
			logrus.Fatalf("Server error: %v", err)
		}
	}

	logrus.Info("server stopped successfully")
}

// runStdioMode serves until stdin closes or the process is signalled
func runStdioMode(ctx context.Context, server *mcp.Server) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logrus.Fatalf("Server error: %v", err)
	}
}

func main() {
	if config.IsVersionRequested(os.Args[1:]) {
		printVersion(os.Stdout)
		return
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Version = version

	setupLogging(cfg)
	logrus.WithField("config", cfg.String()).Debug("starting")

	if cfg.IsCLIMode() {
		if err := app.Run(cfg, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
		return
	}

	server, err := mcp.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server)
	} else {
		runStdioMode(ctx, server)
	}
}

// printVersion prints the fixed version line
func printVersion(w io.Writer) {
	fmt.Fprintln(w, config.VersionString(version))
}
