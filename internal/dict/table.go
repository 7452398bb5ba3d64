package dict

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var (
	// ErrEmptyDictionary is returned when the dictionary input holds zero bytes.
	ErrEmptyDictionary = errors.New("dictionary input is empty")
	// ErrNoEntries is returned when the input yields no well-formed entries.
	ErrNoEntries = errors.New("dictionary contains no well-formed entries")
)

// MaxArgs is the largest argument count a template may declare.
// The binary log format packs the count into 4 bits.
const MaxArgs = 15

// Entry is one message template extracted at firmware build time.
type Entry struct {
	Offset   uint32 // byte position of the record inside the dictionary blob
	ArgCount int    // declared number of substitutable arguments
	Level    uint8  // severity ordinal, higher = more severe
	Source   string // file:line, informational only
	Module   string // logical subsystem tag
	Template string // message text with %d/%x/%s placeholders
}

// Table is the offset-indexed template catalogue for one firmware build.
// It is built once per decode session and immutable afterwards, so
// concurrent decode calls may share it read-only.
type Table struct {
	entries     []Entry // sorted by Offset ascending
	fingerprint string
	warnings    []string
}

// Build parses a raw dictionary blob: NUL-separated records, each record
// holding `arg_count;log_level;source_location;module_name;message_template`.
// Each entry's offset is the byte position of its record inside the blob;
// malformed and empty segments still advance the position. A malformed
// entry is skipped with a recorded warning; an input with zero well-formed
// entries fails outright.
func Build(raw []byte) (*Table, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyDictionary
	}

	var entries []Entry
	var warnings []string

	offset := uint32(0)
	for _, seg := range bytes.Split(raw, []byte{0}) {
		recordOffset := offset
		offset += uint32(len(seg)) + 1 // +1 for the NUL separator

		line := strings.TrimSpace(string(seg))
		if line == "" {
			continue
		}

		entry, err := parseEntry(recordOffset, line)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("dictionary offset %d: %v", recordOffset, err))
			continue
		}
		entries = append(entries, entry)
	}

	t, err := New(entries)
	if err != nil {
		return nil, err
	}
	t.warnings = append(warnings, t.warnings...)
	t.fingerprint = fingerprint(raw)
	return t, nil
}

// New builds a table from already-parsed entries. Entries are ordered by
// offset; a duplicate offset keeps the first entry and skips the later one
// with a recorded warning.
func New(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	t := &Table{entries: make([]Entry, 0, len(sorted))}
	for i, e := range sorted {
		if i > 0 && e.Offset == sorted[i-1].Offset {
			t.warnings = append(t.warnings,
				fmt.Sprintf("dictionary offset %d: duplicate offset, entry %q skipped", e.Offset, e.Template))
			continue
		}
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// parseEntry parses one `;`-delimited dictionary record. The message
// template may itself contain semicolons, so everything past the fourth
// separator belongs to it.
func parseEntry(offset uint32, line string) (Entry, error) {
	fields := strings.Split(line, ";")
	if len(fields) < 5 {
		return Entry{}, fmt.Errorf("want 5 fields, got %d", len(fields))
	}

	argc, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Entry{}, fmt.Errorf("bad arg count %q", fields[0])
	}
	if argc < 0 || argc > MaxArgs {
		return Entry{}, fmt.Errorf("arg count %d out of range 0..%d", argc, MaxArgs)
	}

	level, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 8)
	if err != nil {
		return Entry{}, fmt.Errorf("bad log level %q", fields[1])
	}

	return Entry{
		Offset:   offset,
		ArgCount: argc,
		Level:    uint8(level),
		Source:   strings.TrimSpace(fields[2]),
		Module:   strings.TrimSpace(fields[3]),
		Template: strings.TrimSpace(strings.Join(fields[4:], ";")),
	}, nil
}

// Lookup returns the entry whose offset matches exactly.
func (t *Table) Lookup(offset uint32) (*Entry, bool) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Offset >= offset })
	if i < len(t.entries) && t.entries[i].Offset == offset {
		return &t.entries[i], true
	}
	return nil, false
}

// At returns the entry at position i in offset order. Callers must treat
// the entry as read-only.
func (t *Table) At(i int) *Entry {
	return &t.entries[i]
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// MinOffset returns the smallest known offset.
func (t *Table) MinOffset() uint32 {
	return t.entries[0].Offset
}

// MaxOffset returns the largest known offset.
func (t *Table) MaxOffset() uint32 {
	return t.entries[len(t.entries)-1].Offset
}

// Fingerprint returns the BLAKE2b-256 hex digest of the raw dictionary
// blob, used to tell dictionary builds apart when diagnosing version skew.
// Tables built via New rather than Build have no fingerprint.
func (t *Table) Fingerprint() string {
	return t.fingerprint
}

// Warnings returns the entries skipped during construction, one message
// per skipped record.
func (t *Table) Warnings() []string {
	return t.warnings
}

func fingerprint(raw []byte) string {
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
