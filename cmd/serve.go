package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/api"
	"github.com/alexiusacademia/rcbeam/internal/logging"
	"github.com/alexiusacademia/rcbeam/internal/sensitivity"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the design engine over HTTP",
	Long: `Start an HTTP service exposing evaluation, batch, optimisation,
sensitivity and cutting list endpoints, with Prometheus metrics on
/metrics. Logs are written as JSON.

Examples:
  rcbeam serve
  rcbeam serve --addr :9090
  RCBEAM_ADDR=127.0.0.1:8080 rcbeam serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, default from config (:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if !cmd.Flags().Changed("log-format") {
		log, err := logging.New(cfg.LogLevel, logging.JSON)
		if err != nil {
			return err
		}
		logger = log
	}
	gin.SetMode(gin.ReleaseMode)

	engine := newEngine()
	srv := api.NewServer(
		engine,
		newOptimizer(),
		sensitivity.New(engine, cfg.Sensitivity.Delta, cfg.Batch.Workers),
		cfg.Cutting,
		cfg.Batch.Workers,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, addr)
}
