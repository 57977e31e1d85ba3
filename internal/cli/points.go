package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deltap/pledgepoints/internal/domain"
	"github.com/deltap/pledgepoints/internal/ledger"
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(amendCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rankingsCmd)

	addCmd.Flags().String("pledge", "", "Pledge receiving the points")
	addCmd.Flags().String("brother", "", "Brother awarding the points")
	addCmd.Flags().String("comment", "", "Reason for the point change")
	addCmd.Flags().Int64("amount", 0, "Point change (-128..127)")
	addCmd.MarkFlagRequired("pledge")
	addCmd.MarkFlagRequired("brother")
	addCmd.MarkFlagRequired("amount")

	amendCmd.Flags().String("pledge", "", "New pledge name")
	amendCmd.Flags().String("brother", "", "New brother name")
	amendCmd.Flags().String("comment", "", "New comment")
	amendCmd.Flags().Int64("amount", 0, "New point change")
}

// ─── add ────────────────────────────────────────────────────────────────────

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new point change (starts pending)",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	svc, _, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	pledge, _ := cmd.Flags().GetString("pledge")
	brother, _ := cmd.Flags().GetString("brother")
	comment, _ := cmd.Flags().GetString("comment")
	amount, _ := cmd.Flags().GetInt64("amount")

	rec, err := svc.Append(cmd.Context(), domain.TitleCase(pledge), brother, comment, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Recorded point %d: %+d to %s (pending approval)\n", rec.ID, rec.PointChange, rec.Pledge)
	return nil
}

// ─── amend ──────────────────────────────────────────────────────────────────

var amendCmd = &cobra.Command{
	Use:   "amend ID",
	Short: "Edit fields of an existing point record",
	Long: `Edit the pledge, brother, comment or amount of an existing record.
The id, timestamp and approval state are never changed by an amend.`,
	Args: cobra.ExactArgs(1),
	RunE: runAmend,
}

func runAmend(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	svc, _, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	var a ledger.Amendment
	if cmd.Flags().Changed("pledge") {
		v, _ := cmd.Flags().GetString("pledge")
		v = domain.TitleCase(v)
		a.Pledge = &v
	}
	if cmd.Flags().Changed("brother") {
		v, _ := cmd.Flags().GetString("brother")
		a.Brother = &v
	}
	if cmd.Flags().Changed("comment") {
		v, _ := cmd.Flags().GetString("comment")
		a.Comment = &v
	}
	if cmd.Flags().Changed("amount") {
		v, _ := cmd.Flags().GetInt64("amount")
		a.Amount = &v
	}
	if a == (ledger.Amendment{}) {
		return fmt.Errorf("nothing to amend: pass at least one of --pledge, --brother, --comment, --amount")
	}

	rec, err := svc.Amend(cmd.Context(), id, a)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Amended point %d: %+d to %s (%s)\n", rec.ID, rec.PointChange, rec.Pledge, rec.Comment)
	return nil
}

// ─── show / pending ─────────────────────────────────────────────────────────

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one point record in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		svc, _, closer, err := newService()
		if err != nil {
			return err
		}
		defer closer()

		rec, err := svc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "ID:       %d\n", rec.ID)
		fmt.Fprintf(os.Stdout, "Time:     %s\n", rec.Time.Format("2006-01-02 15:04:05.000"))
		fmt.Fprintf(os.Stdout, "Points:   %+d\n", rec.PointChange)
		fmt.Fprintf(os.Stdout, "Pledge:   %s\n", rec.Pledge)
		fmt.Fprintf(os.Stdout, "Brother:  %s\n", rec.Brother)
		fmt.Fprintf(os.Stdout, "Comment:  %s\n", rec.Comment)
		fmt.Fprintf(os.Stdout, "Status:   %s\n", rec.Status)
		if rec.ApprovedBy != "" {
			fmt.Fprintf(os.Stdout, "By:       %s at %s\n", rec.ApprovedBy,
				rec.ApprovalTime.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List records awaiting approval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closer, err := newService()
		if err != nil {
			return err
		}
		defer closer()

		records, err := svc.Pending(cmd.Context())
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(os.Stdout, "No pending points.")
			return nil
		}
		printRecords(records)
		return nil
	},
}

// ─── totals / history / rankings ────────────────────────────────────────────

var totalsCmd = &cobra.Command{
	Use:   "totals [PLEDGE]",
	Short: "Show point totals, for everyone or one pledge",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closer, err := newService()
		if err != nil {
			return err
		}
		defer closer()

		if len(args) == 1 {
			pledge := domain.TitleCase(args[0])
			total, err := svc.TotalFor(cmd.Context(), pledge)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s: %d points\n", pledge, total)
			return nil
		}

		names, totals, err := svc.AllTotals(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(os.Stdout, "The ledger is empty.")
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for i, name := range names {
			fmt.Fprintf(tw, "%s\t%d\n", name, totals[i])
		}
		return tw.Flush()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history PLEDGE",
	Short: "Show a pledge's point history, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closer, err := newService()
		if err != nil {
			return err
		}
		defer closer()

		pledge := domain.TitleCase(args[0])
		records, err := svc.HistoryFor(cmd.Context(), pledge)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintf(os.Stdout, "No points recorded for %s.\n", pledge)
			return nil
		}
		printRecords(records)
		return nil
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the approved-point standings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closer, err := newService()
		if err != nil {
			return err
		}
		defer closer()

		entries, err := svc.Rankings(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stdout, "No approved points yet.")
			return nil
		}
		for i, e := range entries {
			medal := medalFor(i + 1)
			if medal != "" {
				fmt.Fprintf(os.Stdout, "%s %s: %d points\n", medal, e.Pledge, e.Total)
			} else {
				fmt.Fprintf(os.Stdout, "%2d. %s: %d points\n", i+1, e.Pledge, e.Total)
			}
		}
		return nil
	},
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func printRecords(records []domain.PointRecord) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tPOINTS\tPLEDGE\tBROTHER\tSTATUS\tCOMMENT")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%+d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Time.Format("2006-01-02 15:04"), r.PointChange,
			r.Pledge, r.Brother, r.Status, r.Comment)
	}
	tw.Flush()
}

// medalFor returns the medal emoji for the top three ranks.
func medalFor(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}
