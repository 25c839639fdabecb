package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent tracking sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := db.Sessions().Recent(sessionsLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSOURCE\tMODE\tSIZE\tFRAMES\tSTARTED\tDURATION\tERROR")
		for _, s := range sessions {
			duration := "running"
			if s.EndedAt != nil {
				duration = s.EndedAt.Sub(s.StartedAt).Round(time.Millisecond).String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%s\t%s\t%s\n",
				shortID(s.ID), s.Source, s.Mode, s.Width, s.Height, s.Frames,
				s.StartedAt.Local().Format("2006-01-02 15:04"), duration, s.Error)
		}
		return w.Flush()
	},
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Maximum number of sessions to show")
	rootCmd.AddCommand(sessionsCmd)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
