package binlog

import (
	"encoding/binary"
	"errors"
)

// ErrTruncated reports a stream that ends inside a record: the header
// promised more argument words than the buffer holds. Common when a device
// loses power mid-write, so callers usually treat it as a warning covering
// the final record only.
var ErrTruncated = errors.New("binary stream truncated mid-record")

const headerSize = 8

// log_id layout: top 4 bits carry the argument count, the low 28 bits the
// dictionary offset reference.
const (
	argCountShift = 28
	offsetRefMask = 0x0FFFFFFF
)

// Record is one unit read from the raw firmware log stream.
type Record struct {
	TimestampMS uint32   // monotonic within a boot cycle
	OffsetRef   uint32   // 28-bit dictionary offset reference
	Args        []uint32 // raw bit patterns of the substituted values
}

// Reader walks a fully-buffered binary log stream record by record.
// A fresh Reader over the same buffer yields an identical sequence; no
// state is shared between Readers.
type Reader struct {
	buf  []byte
	pos  int
	rec  Record
	err  error
	done bool
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Next advances to the next record. It returns false at end of stream;
// check Err to distinguish a clean end from a truncated final record.
func (r *Reader) Next() bool {
	if r.done {
		return false
	}
	if r.pos+headerSize > len(r.buf) {
		// Fewer than 8 bytes left is a clean end of stream; the
		// remainder stays visible through Leftover.
		r.done = true
		return false
	}

	ts := binary.LittleEndian.Uint32(r.buf[r.pos:])
	id := binary.LittleEndian.Uint32(r.buf[r.pos+4:])
	argc := int(id >> argCountShift)

	end := r.pos + headerSize + 4*argc
	if end > len(r.buf) {
		// Never build a record from partial bytes.
		r.err = ErrTruncated
		r.done = true
		return false
	}

	args := make([]uint32, argc)
	for i := range args {
		args[i] = binary.LittleEndian.Uint32(r.buf[r.pos+headerSize+4*i:])
	}

	r.rec = Record{
		TimestampMS: ts,
		OffsetRef:   id & offsetRefMask,
		Args:        args,
	}
	r.pos = end
	return true
}

// Record returns the record produced by the last successful Next.
func (r *Reader) Record() Record {
	return r.rec
}

// Err returns ErrTruncated if the stream ended mid-record, nil otherwise.
func (r *Reader) Err() error {
	return r.err
}

// Truncated reports whether the stream ended inside a record.
func (r *Reader) Truncated() bool {
	return errors.Is(r.err, ErrTruncated)
}

// Leftover returns the number of trailing bytes not consumed as records.
func (r *Reader) Leftover() int {
	return len(r.buf) - r.pos
}

// ReadAll decodes every complete record in buf. On truncation it returns
// the complete prior records together with ErrTruncated.
func ReadAll(buf []byte) ([]Record, error) {
	r := NewReader(buf)
	var recs []Record
	for r.Next() {
		recs = append(recs, r.Record())
	}
	return recs, r.Err()
}
