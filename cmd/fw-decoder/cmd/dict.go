package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quara-dev/fw-decoder/internal/dict"
	"github.com/quara-dev/fw-decoder/internal/input"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Inspect build-time dictionaries",
}

var dictInspectCmd = &cobra.Command{
	Use:   "inspect <dictionary>",
	Short: "Show entry count, offset range and fingerprint of a dictionary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictInspect,
}

var dictListCmd = &cobra.Command{
	Use:   "list <dir>",
	Short: "List usable dictionary files in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runDictList,
}

func init() {
	rootCmd.AddCommand(dictCmd)
	dictCmd.AddCommand(dictInspectCmd)
	dictCmd.AddCommand(dictListCmd)
}

func runDictInspect(cmd *cobra.Command, args []string) error {
	raw, err := input.ReadFile(args[0])
	if err != nil {
		return err
	}
	table, err := dict.Build(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	fmt.Printf("entries:      %d\n", table.Len())
	fmt.Printf("offset range: %d..%d\n", table.MinOffset(), table.MaxOffset())
	fmt.Printf("fingerprint:  %s\n", table.Fingerprint())
	if ws := table.Warnings(); len(ws) > 0 {
		fmt.Printf("skipped:      %d\n", len(ws))
		for _, w := range ws {
			fmt.Printf("  %s\n", w)
		}
	}
	return nil
}

// runDictList reports which files in a directory parse as dictionaries,
// so the right build artifact can be picked for a given capture.
func runDictList(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	found := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(args[0], e.Name())
		raw, err := input.ReadFile(path)
		if err != nil {
			continue
		}
		table, err := dict.Build(raw)
		if err != nil {
			continue
		}
		found++
		fmt.Fprintf(w, "%s\t%d entries\t%s\n", e.Name(), table.Len(), table.Fingerprint()[:16])
	}
	if found == 0 {
		return fmt.Errorf("no dictionary files in %s", args[0])
	}
	return nil
}
