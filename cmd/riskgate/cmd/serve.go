package cmd

import (
	"log/slog"
	"net/http"

	"github.com/rustyeddy/riskgate/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Prometheus metrics endpoint",
	Long: `Expose /metrics and /healthz over HTTP so decision counters can be
scraped while the engine is embedded in a long-running process.

Example:
  riskgate serve --addr :9163`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9163", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	slog.Info("serving metrics", "addr", serveAddr)
	return http.ListenAndServe(serveAddr, mux)
}
