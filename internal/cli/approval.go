package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deltap/pledgepoints/internal/domain"
)

func init() {
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(purgeCmd)

	approveCmd.Flags().String("actor", "", "Moderator performing the approval")
	approveCmd.Flags().String("range", "", "Inclusive id range START-END (bounds in either order)")
	approveCmd.Flags().Bool("all", false, "Approve every pending record")
	approveCmd.MarkFlagRequired("actor")

	rejectCmd.Flags().String("actor", "", "Moderator performing the rejection")
	rejectCmd.MarkFlagRequired("actor")
}

// ─── approve ────────────────────────────────────────────────────────────────

var approveCmd = &cobra.Command{
	Use:   "approve [IDS]",
	Short: "Approve pending point records",
	Long: `Approve pending point records by id.

IDS is a single id or a comma-separated list ("4" or "1,3,7").
Use --range START-END for an inclusive id range, or --all for the
whole pending backlog. Approved and rejected records are final.`,
	RunE: runApprove,
}

func runApprove(cmd *cobra.Command, args []string) error {
	actor, _ := cmd.Flags().GetString("actor")
	rangeArg, _ := cmd.Flags().GetString("range")
	all, _ := cmd.Flags().GetBool("all")

	svc, _, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	switch {
	case all:
		affected, err := svc.ApproveAllPending(cmd.Context(), actor)
		if err != nil {
			return err
		}
		if len(affected) == 0 {
			fmt.Fprintln(os.Stdout, "No pending points to approve.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "Approved %d pending points:\n", len(affected))
		for _, r := range affected {
			fmt.Fprintf(os.Stdout, "  %d: %+d to %s (%s)\n", r.ID, r.PointChange, r.Pledge, r.Comment)
		}
		return nil

	case rangeArg != "":
		start, end, err := parseIDRange(rangeArg)
		if err != nil {
			return err
		}
		if err := svc.SetApprovalRange(cmd.Context(), start, end, domain.StatusApproved, actor); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Approved points %d through %d.\n", min(start, end), max(start, end))
		return nil

	case len(args) == 1:
		ids, err := parseIDList(args[0])
		if err != nil {
			return err
		}
		if len(ids) == 1 {
			rec, err := svc.SetApproval(cmd.Context(), ids[0], domain.StatusApproved, actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Approved point %d: %+d to %s.\n", rec.ID, rec.PointChange, rec.Pledge)
			return nil
		}
		if err := svc.SetApprovalBulk(cmd.Context(), ids, domain.StatusApproved, actor); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Approved %d points.\n", len(ids))
		return nil
	}

	return fmt.Errorf("pass ids, --range START-END, or --all")
}

// ─── reject ─────────────────────────────────────────────────────────────────

var rejectCmd = &cobra.Command{
	Use:   "reject IDS",
	Short: "Reject pending point records by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, _ := cmd.Flags().GetString("actor")
		ids, err := parseIDList(args[0])
		if err != nil {
			return err
		}

		svc, _, closer, err := newService()
		if err != nil {
			return err
		}
		defer closer()

		if len(ids) == 1 {
			rec, err := svc.SetApproval(cmd.Context(), ids[0], domain.StatusRejected, actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Rejected point %d: %+d to %s.\n", rec.ID, rec.PointChange, rec.Pledge)
			return nil
		}
		if err := svc.SetApprovalBulk(cmd.Context(), ids, domain.StatusRejected, actor); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Rejected %d points.\n", len(ids))
		return nil
	},
}

// ─── purge ──────────────────────────────────────────────────────────────────

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every record that is not approved",
	Long: `Delete every pending and rejected record from the ledger. Approved
records and their ids are untouched; running purge twice is a no-op.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, closer, err := newService()
		if err != nil {
			return err
		}
		defer closer()

		removed, err := svc.DeleteUnapproved(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed %d unapproved points.\n", removed)
		return nil
	},
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q is not an integer", s)
	}
	return id, nil
}

// parseIDList parses "4" or "1,3,7".
func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := parseID(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseIDRange parses "START-END".
func parseIDRange(s string) (int64, int64, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("range %q must look like START-END", s)
	}
	start, err := parseID(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := parseID(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
