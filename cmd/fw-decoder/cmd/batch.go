package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quara-dev/fw-decoder/internal/decode"
	"github.com/quara-dev/fw-decoder/internal/manifest"
)

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.json>",
	Short: "Run a batch of decode jobs from a JSON manifest",
	Long: `Run every decode job listed in a JSON manifest. The manifest is an
array of job objects (a single object also works):

  [
    {"binary": "capture-1.bin", "dictionary": "v2.1/dict.log"},
    {"binary": "capture-2.bin", "min_level": 2, "output": "cap2.txt"}
  ]

Jobs without a dictionary use the configured default; jobs without an
output path write next to the binary with a .txt extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var batchLevel string

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchLevel, "min-level", "l", "debug", "Default minimum level for jobs that set none")
}

func runBatch(cmd *cobra.Command, args []string) error {
	minLevel, err := decode.ParseLevel(batchLevel)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	jobs, err := manifest.Parse(data, manifest.Defaults{
		Dictionary: viper.GetString("dictionary"),
		MinLevel:   minLevel,
	})
	if err != nil {
		return err
	}

	logrus.WithField("jobs", len(jobs)).Info("starting batch")
	return manifest.Run(jobs, logrus.StandardLogger())
}
