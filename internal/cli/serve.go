package cli

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/deltap/pledgepoints/internal/api"
	"github.com/deltap/pledgepoints/internal/app"
	"github.com/deltap/pledgepoints/internal/daemon"
	"github.com/deltap/pledgepoints/internal/ingest"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("messages", "", "JSON message dump to serve as the ingestion source")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger HTTP API",
	Long: `Run the HTTP API that the chat front end calls. Listens on the
configured host and port; /metrics is exposed when metrics are enabled.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.Load(cfgPath)
	if err != nil {
		return err
	}
	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closer()

	server := api.NewServer(app.New(store))
	if cfg.Metrics.Enabled {
		server.EnableMetrics()
	}

	// A message dump turns on the /api/ingest trigger. The live chat
	// collaborator plugs in the same way, as a domain.Source.
	if dump, _ := cmd.Flags().GetString("messages"); dump != "" {
		server.SetPipeline(&ingest.Pipeline{
			Store:       store,
			Source:      &FileSource{Path: dump},
			Ack:         &LogAcknowledger{},
			Roster:      cfg.RosterOrDefault(),
			AckInterval: time.Duration(cfg.Ingest.AckIntervalMS) * time.Millisecond,
		})
	}

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	log.Printf("pledgepoints API listening on %s (store: %s %s)", addr, cfg.Store.Backend, cfg.Store.Path)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
