// Package manifest runs batches of decode jobs described by a JSON
// manifest, the hand-off format for logs fetched out-of-band into a
// download directory.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"

	"github.com/quara-dev/fw-decoder/internal/decode"
	"github.com/quara-dev/fw-decoder/internal/dict"
	"github.com/quara-dev/fw-decoder/internal/input"
)

// Job is one decode task from a batch manifest.
type Job struct {
	ID         string // assigned at parse time, for log correlation
	Binary     string
	Dictionary string
	Output     string
	MinLevel   uint8
}

// Defaults fill manifest jobs that omit a field.
type Defaults struct {
	Dictionary string
	MinLevel   uint8
}

var parsers fastjson.ParserPool

// Parse reads a batch manifest: a JSON array of job objects, or a single
// object for a one-job batch. Each job needs at least a "binary" path;
// "dictionary" and "min_level" fall back to the defaults and "output"
// defaults to the binary path with a .txt extension.
func Parse(data []byte, defs Defaults) ([]Job, error) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	var vals []*fastjson.Value
	if v.Type() == fastjson.TypeArray {
		vals, _ = v.Array()
	} else {
		vals = []*fastjson.Value{v}
	}

	jobs := make([]Job, 0, len(vals))
	for i, val := range vals {
		job := Job{
			ID:         uuid.New().String(),
			Binary:     string(val.GetStringBytes("binary")),
			Dictionary: string(val.GetStringBytes("dictionary")),
			Output:     string(val.GetStringBytes("output")),
		}
		if job.Binary == "" {
			return nil, fmt.Errorf("manifest: job %d: missing binary path", i)
		}
		if job.Dictionary == "" {
			job.Dictionary = defs.Dictionary
		}
		if job.Dictionary == "" {
			return nil, fmt.Errorf("manifest: job %d: no dictionary given and no default set", i)
		}
		if val.Exists("min_level") {
			job.MinLevel = uint8(val.GetUint("min_level"))
		} else {
			job.MinLevel = defs.MinLevel
		}
		if job.Output == "" {
			job.Output = strings.TrimSuffix(job.Binary, filepath.Ext(job.Binary)) + ".txt"
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Run executes jobs in order, writing one formatted text file per job.
// Dictionary tables are cached per path, so a manifest pointing many
// binaries at one dictionary builds it once and shares it read-only.
func Run(jobs []Job, log logrus.FieldLogger) error {
	tables := make(map[string]*dict.Table)

	for _, job := range jobs {
		jlog := log.WithField("job", job.ID)

		table, ok := tables[job.Dictionary]
		if !ok {
			raw, err := input.ReadFile(job.Dictionary)
			if err != nil {
				return fmt.Errorf("job %s: %w", job.ID, err)
			}
			table, err = dict.Build(raw)
			if err != nil {
				return fmt.Errorf("job %s: %s: %w", job.ID, job.Dictionary, err)
			}
			for _, w := range table.Warnings() {
				jlog.WithField("dictionary", job.Dictionary).Warn(w)
			}
			tables[job.Dictionary] = table
		}

		raw, err := input.ReadFile(job.Binary)
		if err != nil {
			return fmt.Errorf("job %s: %w", job.ID, err)
		}
		res, err := decode.Decode(table, raw, decode.Options{MinLevel: job.MinLevel, Logger: jlog})
		if err != nil {
			return fmt.Errorf("job %s: %s: %w", job.ID, job.Binary, err)
		}
		for _, w := range res.Warnings {
			jlog.WithField("binary", job.Binary).Warn(w)
		}

		f, err := os.Create(job.Output)
		if err != nil {
			return fmt.Errorf("job %s: %w", job.ID, err)
		}
		if err := res.WriteText(f); err != nil {
			f.Close()
			return fmt.Errorf("job %s: write %s: %w", job.ID, job.Output, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("job %s: close %s: %w", job.ID, job.Output, err)
		}

		jlog.WithFields(logrus.Fields{
			"entries":     len(res.Entries),
			"boot_cycles": res.Stats.BootCycles,
			"output":      job.Output,
		}).Info("job complete")
	}
	return nil
}
