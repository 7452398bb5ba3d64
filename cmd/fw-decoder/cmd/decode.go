package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quara-dev/fw-decoder/internal/decode"
	"github.com/quara-dev/fw-decoder/internal/input"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <binary-log>",
	Short: "Decode a binary firmware log into readable text",
	Long: `Decode one binary firmware log against a build-time dictionary.

Examples:
  # Decode everything to stdout
  fw-decoder decode -d build/dict.log capture.bin

  # Keep warnings and above, write to a file
  fw-decoder decode -d build/dict.log -l warn -o capture.txt capture.bin

  # Machine-readable entries with decode statistics
  fw-decoder decode -d build/dict.log --json --stats capture.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

var (
	decodeDict   string
	decodeLevel  string
	decodeOut    string
	decodeJSON   bool
	decodeExact  bool
	decodeStats  bool
	decodeMax    int
	decodeNoTS   bool
	decodeNoMods bool
)

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&decodeDict, "dictionary", "d", "", "Dictionary file (env FW_DECODER_DICTIONARY)")
	decodeCmd.Flags().StringVarP(&decodeLevel, "min-level", "l", "debug", "Minimum log level to keep (name or ordinal)")
	decodeCmd.Flags().StringVarP(&decodeOut, "output", "o", "", "Output file (default stdout)")
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "Emit entries as JSON instead of text lines")
	decodeCmd.Flags().BoolVar(&decodeExact, "exact", false, "Disable modulo fallback resolution")
	decodeCmd.Flags().BoolVar(&decodeStats, "stats", false, "Print decode statistics to stderr")
	decodeCmd.Flags().IntVar(&decodeMax, "max", 0, "Stop after this many records (0 = no limit)")
	decodeCmd.Flags().BoolVar(&decodeNoTS, "no-timestamps", false, "Omit the timestamp column")
	decodeCmd.Flags().BoolVar(&decodeNoMods, "no-modules", false, "Omit the module column")

	viper.BindPFlag("dictionary", decodeCmd.Flags().Lookup("dictionary"))
}

func runDecode(cmd *cobra.Command, args []string) error {
	table, err := loadTable(decodeDict)
	if err != nil {
		return err
	}

	minLevel, err := decode.ParseLevel(decodeLevel)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"min_level":   decode.LevelName(minLevel),
		"fingerprint": table.Fingerprint(),
	}).Debug("dictionary loaded")

	raw, err := input.ReadFile(args[0])
	if err != nil {
		return err
	}

	res, err := decode.Decode(table, raw, decode.Options{
		MinLevel:     minLevel,
		ExactOnly:    decodeExact,
		MaxRecords:   decodeMax,
		NoTimestamps: decodeNoTS,
		NoModules:    decodeNoMods,
		Logger:       logrus.WithField("binary", args[0]),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	for _, w := range res.Warnings {
		logrus.WithField("binary", args[0]).Warn(w)
	}

	var out io.Writer = os.Stdout
	if decodeOut != "" {
		f, err := os.Create(decodeOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if decodeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Entries); err != nil {
			return err
		}
	} else if err := res.WriteText(out); err != nil {
		return err
	}

	if decodeStats {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Stats); err != nil {
			return err
		}
	}
	return nil
}
