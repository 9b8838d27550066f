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

	"github.com/nishad/biosubmit/internal/api"
	"github.com/nishad/biosubmit/internal/service"
	"github.com/nishad/biosubmit/internal/ui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the biosubmit HTTP service",
	Long: `Start an HTTP service that converts uploaded sample tables into submission
XML using the organization settings of the loaded configuration.

The server provides:
- POST /api/v1/submissions to convert a TSV body
- GET /api/v1/submissions for the recorded runs
- GET /api/v1/search to find samples of earlier runs
- POST /api/v1/validate to check an existing document
- GET /metrics in the Prometheus format`,
	Example: `  biosubmit serve
  biosubmit serve --port 3000
  biosubmit serve --host 0.0.0.0 --enable-cors`,
	RunE: runServe,
}

var (
	serveHost       string
	servePort       int
	serveEnableCORS bool
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default: from config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: from config)")
	serveCmd.Flags().BoolVar(&serveEnableCORS, "enable-cors", false, "Enable CORS for web access")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if serveHost == "" {
		serveHost = cfg.Server.Host
	}
	if servePort == 0 {
		servePort = cfg.Server.Port
	}

	logger, err := openLogger(cfg, "serve")
	if err != nil {
		return err
	}
	defer logger.Close()

	var spinner *ui.Spinner
	if !quiet {
		spinner = ui.NewSpinner(os.Stderr, "Initializing server components")
		spinner.Start()
	}

	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
	}
	idx := openIndex(cfg, store)
	if idx != nil {
		defer idx.Close()
	}

	svc := service.NewSubmissionService(cfg,
		service.WithHistory(store),
		service.WithIndex(idx),
		service.WithLogger(logger.Slog()))

	server := api.NewServer(&api.Config{
		Host:       serveHost,
		Port:       servePort,
		EnableCORS: serveEnableCORS,
	}, svc, logger.Slog())

	if spinner != nil {
		spinner.Stop("")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	printSuccess("Server ready at http://%s", server.Addr())
	if store != nil {
		printInfo("History: %s", store.Path())
	}
	if idx != nil {
		printInfo("Search index: %s", idx.Path())
	}
	if serveEnableCORS {
		printInfo("CORS enabled for web access")
	}
	logger.Info(fmt.Sprintf("Listening on {%s}", server.Addr()))

	select {
	case <-sigChan:
		printInfo("\nShutting down server...")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	printSuccess("Server stopped gracefully")
	return nil
}
