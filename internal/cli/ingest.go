package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/deltap/pledgepoints/internal/daemon"
	"github.com/deltap/pledgepoints/internal/domain"
	"github.com/deltap/pledgepoints/internal/ingest"
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntP("days", "d", 0, "Lookback window in days (default from config)")
	ingestCmd.Flags().StringP("file", "f", "", "JSON message dump to ingest")
	ingestCmd.MarkFlagRequired("file")
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Backfill the ledger from a chat message dump",
	Long: `Parse a JSON dump of chat messages into pending point records.

Each message needs an author, a timestamp and its raw content. Messages
that do not parse or name a pledge not on the roster are dropped with a
negative acknowledgement; submissions already in the ledger are skipped.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.Load(cfgPath)
	if err != nil {
		return err
	}
	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closer()

	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		days = cfg.Ingest.DefaultLookbackDays
	}
	dump, _ := cmd.Flags().GetString("file")

	pipeline := &ingest.Pipeline{
		Store:       store,
		Source:      &FileSource{Path: dump},
		Ack:         &LogAcknowledger{},
		Roster:      cfg.RosterOrDefault(),
		AckInterval: time.Duration(cfg.Ingest.AckIntervalMS) * time.Millisecond,
	}
	report, err := pipeline.Run(cmd.Context(), days)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Batch %s: %d fetched, %d rejected, %d duplicates, %d added.\n",
		report.BatchID, report.Fetched, report.Rejected, report.Duplicates, report.Inserted)

	// The ack dispatch runs detached; give it time to drain before the
	// process exits.
	time.Sleep(time.Duration(report.Fetched)*time.Duration(cfg.Ingest.AckIntervalMS)*time.Millisecond + 50*time.Millisecond)
	return nil
}

// ─── Collaborator Stand-ins ─────────────────────────────────────────────────

// FileSource serves a JSON dump of chat messages as the ingestion
// source, filtered to the lookback window.
type FileSource struct {
	Path string
}

// FetchMessages reads the dump and keeps messages newer than the window.
func (f *FileSource) FetchMessages(ctx context.Context, daysAgo int) ([]domain.Message, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read message dump: %w", err)
	}
	var all []domain.Message
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse message dump: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -daysAgo)
	kept := make([]domain.Message, 0, len(all))
	for _, m := range all {
		if m.Time.After(cutoff) {
			kept = append(kept, m)
		}
	}
	return kept, nil
}

// LogAcknowledger prints acknowledgements to stdout, standing in for
// the chat platform's reaction API.
type LogAcknowledger struct{}

// Acknowledge prints a thumbs up or down for one message.
func (LogAcknowledger) Acknowledge(ctx context.Context, msg domain.Message, ok bool) error {
	mark := "👍"
	if !ok {
		mark = "👎"
	}
	fmt.Fprintf(os.Stdout, "  %s %s: %s\n", mark, msg.Author, msg.Content)
	return nil
}
