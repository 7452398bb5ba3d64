package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quara-dev/fw-decoder/internal/decode"
	"github.com/quara-dev/fw-decoder/internal/input"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions <binary-log>",
	Short: "Summarise the boot cycles found in a binary log",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessions,
}

var sessionsDict string

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().StringVarP(&sessionsDict, "dictionary", "d", "", "Dictionary file (env FW_DECODER_DICTIONARY)")
}

func runSessions(cmd *cobra.Command, args []string) error {
	table, err := loadTable(sessionsDict)
	if err != nil {
		return err
	}
	raw, err := input.ReadFile(args[0])
	if err != nil {
		return err
	}

	res, err := decode.Decode(table, raw, decode.Options{})
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "CYCLE\tENTRIES\tSPAN\tWALL CLOCK")
	for _, s := range decode.Sessions(res.Entries) {
		wall := "-"
		if !s.WallClock.IsZero() {
			wall = s.WallClock.Format("2006-01-02 15:04:05 MST")
		}
		fmt.Fprintf(w, "%d\t%d\t%dms..%dms\t%s\n", s.Index, s.Entries, s.FirstMS, s.LastMS, wall)
	}
	return nil
}
