package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ralvarado/sigma/internal/config"
	"github.com/ralvarado/sigma/internal/phase"
	"github.com/ralvarado/sigma/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Expose the synthesis workflow over HTTP",
	Long: `Start the task API server for the project directory.

Endpoints:

  GET  /health                    server status
  POST /workflow/start            start a background synthesis run
  GET  /workflow/{id}/status      poll a run's record
  POST /phase/execute             run a single phase synchronously

Bind address comes from the server block of .sigma/config.yaml, overridable
with SIGMA_SERVER_HOST, SIGMA_SERVER_PORT, and SIGMA_SERVER_ENABLED.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	projectDir := projectDirFromArgs(args)
	cfg, err := config.Init(projectDir)
	if err != nil {
		return err
	}
	settings := server.SettingsFromConfig(cfg)
	if !settings.Enabled {
		return fmt.Errorf("server disabled; enable it in .sigma/config.yaml or set SIGMA_SERVER_ENABLED=true")
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}
	factory := func() (*phase.Context, error) { return newRunContext(projectDir) }
	srv, err := server.New(settings, eng, factory,
		server.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("sigma server listening on %s\n", srv.Addr())

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
