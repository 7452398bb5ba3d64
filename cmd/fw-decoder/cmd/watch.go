package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quara-dev/fw-decoder/internal/decode"
	"github.com/quara-dev/fw-decoder/internal/dict"
	"github.com/quara-dev/fw-decoder/internal/input"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Decode binary logs as they appear in a directory",
	Long: `Watch a directory and decode every .bin or .log file written into it,
placing the decoded text next to it with a .txt extension. Useful when an
external job drops device captures into a download directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchDict  string
	watchLevel string
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchDict, "dictionary", "d", "", "Dictionary file (env FW_DECODER_DICTIONARY)")
	watchCmd.Flags().StringVarP(&watchLevel, "min-level", "l", "debug", "Minimum log level to keep")
}

func runWatch(cmd *cobra.Command, args []string) error {
	table, err := loadTable(watchDict)
	if err != nil {
		return err
	}
	minLevel, err := decode.ParseLevel(watchLevel)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := args[0]
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log := logrus.WithField("dir", dir)
	log.Info("watching for binary logs")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			outPath, ok := watchOutput(event.Name)
			if !ok {
				continue
			}
			flog := log.WithField("file", event.Name)
			if err := decodeToFile(table, event.Name, outPath, minLevel); err != nil {
				flog.WithError(err).Error("decode failed")
				continue
			}
			flog.Info("decoded")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Error("watcher error")
		case sig := <-quit:
			log.WithField("signal", sig).Info("shutting down")
			return nil
		}
	}
}

// watchOutput maps a watched file to its decode target. Only .bin and .log
// captures are decoded; a .log keeps its extension in the output name so it
// cannot collide with a same-stem .bin.
func watchOutput(name string) (string, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bin":
		return strings.TrimSuffix(name, filepath.Ext(name)) + ".txt", true
	case ".log":
		return name + ".txt", true
	}
	return "", false
}

func decodeToFile(table *dict.Table, binPath, outPath string, minLevel uint8) error {
	raw, err := input.ReadFile(binPath)
	if err != nil {
		return err
	}
	res, err := decode.Decode(table, raw, decode.Options{
		MinLevel: minLevel,
		Logger:   logrus.WithField("binary", binPath),
	})
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		logrus.WithField("binary", binPath).Warn(w)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := res.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
