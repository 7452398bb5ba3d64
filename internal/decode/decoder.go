// Package decode runs the full firmware log pipeline: binary records are
// read one at a time, resolved against the dictionary table, rendered,
// annotated with their boot cycle, filtered by level and formatted. One
// decode call owns all of its state; the dictionary table is only read, so
// concurrent calls may share it.
package decode

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/quara-dev/fw-decoder/internal/binlog"
	"github.com/quara-dev/fw-decoder/internal/dict"
	"github.com/quara-dev/fw-decoder/internal/render"
	"github.com/quara-dev/fw-decoder/internal/resolve"
)

// ErrEmptyStream is returned when the binary input holds zero bytes.
var ErrEmptyStream = errors.New("binary log stream is empty")

// Options configure a single decode call.
type Options struct {
	MinLevel     uint8              // entries below this severity are dropped
	ExactOnly    bool               // disable modulo fallback resolution
	MaxRecords   int                // stop after this many records, 0 = no limit
	NoTimestamps bool               // omit the timestamp column when formatting
	NoModules    bool               // omit the module column when formatting
	Logger       logrus.FieldLogger // optional; std logger when nil
}

// Entry is one resolved, human-facing log entry.
type Entry struct {
	TimestampMS uint32 `json:"timestamp_ms"`
	Module      string `json:"module"`
	Level       uint8  `json:"level"`
	Message     string `json:"message"`
	BootCycle   int    `json:"boot_cycle"`
	OffsetRef   uint32 `json:"offset_ref"`
	Resolution  string `json:"resolution"` // "exact", "fallback" or "unresolved"
	ArgMismatch bool   `json:"arg_mismatch,omitempty"`
}

// Stats describes what one decode call saw.
type Stats struct {
	RecordsRead      int    `json:"records_read"`
	Resolved         int    `json:"resolved"`
	FallbackResolved int    `json:"fallback_resolved"`
	Unresolved       int    `json:"unresolved"`
	ArgMismatches    int    `json:"arg_mismatches"`
	FilteredOut      int    `json:"filtered_out"`
	Truncated        bool   `json:"truncated"`
	LeftoverBytes    int    `json:"leftover_bytes"`
	BootCycles       int    `json:"boot_cycles"`
	DictEntries      int    `json:"dict_entries"`
	DictFingerprint  string `json:"dict_fingerprint,omitempty"`
}

// Result is the outcome of one decode call: as much correctly decoded data
// as the inputs allowed, annotated so callers can tell clean entries from
// best-effort or placeholder ones.
type Result struct {
	Entries  []Entry
	Stats    Stats
	Warnings []string

	opts Options
}

// Decode runs the pipeline over a fully-buffered binary stream. Failures
// that invalidate the whole call (no table, empty stream) surface as
// errors; every other anomaly degrades to a visible marker in the result.
func Decode(table *dict.Table, raw []byte, opts Options) (*Result, error) {
	if table == nil {
		return nil, errors.New("nil dictionary table")
	}
	if len(raw) == 0 {
		return nil, ErrEmptyStream
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	resolver := resolve.Default()
	if opts.ExactOnly {
		resolver = resolve.Strict()
	}

	res := &Result{opts: opts}
	res.Stats.DictEntries = table.Len()
	res.Stats.DictFingerprint = table.Fingerprint()

	var seg segmenter
	r := binlog.NewReader(raw)
	for (opts.MaxRecords == 0 || res.Stats.RecordsRead < opts.MaxRecords) && r.Next() {
		rec := r.Record()
		res.Stats.RecordsRead++

		out := Entry{TimestampMS: rec.TimestampMS, OffsetRef: rec.OffsetRef}

		entry, kind := resolver.Resolve(rec.OffsetRef, table)
		switch kind {
		case resolve.Unresolved:
			res.Stats.Unresolved++
			out.Module = "UNKNOWN"
			out.Level = LevelUnknown
			out.Message = fmt.Sprintf("Unknown log format [offset: 0x%08x]", rec.OffsetRef)
			out.Resolution = "unresolved"
		default:
			if kind == resolve.Fallback {
				res.Stats.FallbackResolved++
				out.Resolution = "fallback"
			} else {
				res.Stats.Resolved++
				out.Resolution = "exact"
			}
			out.Module = entry.Module
			out.Level = entry.Level

			msg, err := render.Message(entry.Template, rec.Args, entry.ArgCount)
			if err != nil {
				var mismatch *render.ArgCountMismatchError
				if errors.As(err, &mismatch) {
					res.Stats.ArgMismatches++
					out.ArgMismatch = true
					log.WithField("offset", rec.OffsetRef).WithError(err).Debug("argument count mismatch")
				}
			}
			out.Message = msg
		}

		// Boot-cycle detection must see every record's timestamp,
		// including records the level filter drops below.
		out.BootCycle = seg.observe(rec.TimestampMS)

		if out.Level < opts.MinLevel {
			res.Stats.FilteredOut++
			continue
		}
		res.Entries = append(res.Entries, out)
	}

	if r.Truncated() {
		res.Stats.Truncated = true
		res.Warnings = append(res.Warnings,
			"binary stream truncated mid-record; final partial record dropped")
	}
	res.Stats.LeftoverBytes = r.Leftover()
	// The record cap leaves whole records unread; don't mistake them for a
	// ragged stream tail.
	capped := opts.MaxRecords > 0 && res.Stats.RecordsRead >= opts.MaxRecords
	if res.Stats.LeftoverBytes > 0 && !res.Stats.Truncated {
		if capped {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("stopped at record cap %d, %d bytes unread", opts.MaxRecords, res.Stats.LeftoverBytes))
		} else {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("%d trailing bytes too short for a record header", res.Stats.LeftoverBytes))
		}
	}
	if res.Stats.RecordsRead > 0 {
		res.Stats.BootCycles = seg.cycle + 1
	}

	return res, nil
}
