package render

import (
	"fmt"
	"strconv"
	"strings"
)

// missingArg is substituted for a placeholder with no argument word left.
const missingArg = "<missing>"

// ArgCountMismatchError reports a record whose argument words do not match
// the dictionary entry's declared count. The text rendered alongside it is
// still usable; the error exists so callers can count and surface the
// mismatch instead of dropping the entry.
type ArgCountMismatchError struct {
	Want int // declared by the dictionary entry
	Got  int // carried by the binary record
}

func (e *ArgCountMismatchError) Error() string {
	return fmt.Sprintf("arg count mismatch: template wants %d, record carried %d", e.Want, e.Got)
}

// Message substitutes argument words into a template, consuming
// placeholders left to right, one word each:
//
//   - %d renders the word as a signed 32-bit decimal.
//   - %x renders the word as lowercase hex without padding.
//   - %s interprets the word as up to four packed ASCII characters
//     (little-endian byte order, NUL padded). The wire format carries no
//     string table, so a word holding anything non-printable renders as its
//     hex value instead.
//   - %% renders a literal percent sign; unknown verbs pass through.
//
// A placeholder with no argument left renders as "<missing>". When the
// record's argument count differs from declared, the text gains a visible
// mismatch suffix and an *ArgCountMismatchError is returned with it.
func Message(template string, args []uint32, declared int) (string, error) {
	var b strings.Builder
	b.Grow(len(template) + 8*len(args))

	next := 0
	take := func() (uint32, bool) {
		if next >= len(args) {
			return 0, false
		}
		w := args[next]
		next++
		return w, true
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}
		switch template[i+1] {
		case '%':
			b.WriteByte('%')
		case 'd':
			if w, ok := take(); ok {
				b.WriteString(strconv.FormatInt(int64(int32(w)), 10))
			} else {
				b.WriteString(missingArg)
			}
		case 'x':
			if w, ok := take(); ok {
				b.WriteString(strconv.FormatUint(uint64(w), 16))
			} else {
				b.WriteString(missingArg)
			}
		case 's':
			if w, ok := take(); ok {
				b.WriteString(packedString(w))
			} else {
				b.WriteString(missingArg)
			}
		default:
			b.WriteByte(c)
			continue
		}
		i++
	}

	if len(args) != declared {
		fmt.Fprintf(&b, " [arg mismatch: want %d, got %d]", declared, len(args))
		return b.String(), &ArgCountMismatchError{Want: declared, Got: len(args)}
	}
	return b.String(), nil
}

// packedString decodes an argument word as packed ASCII, low byte first,
// trailing NULs trimmed. Words that are not fully printable come back as
// their raw hex value so no information is lost.
func packedString(w uint32) string {
	var chars [4]byte
	n := 0
	for i := 0; i < 4; i++ {
		chars[i] = byte(w >> (8 * i))
		if chars[i] != 0 {
			n = i + 1
		}
	}
	for i := 0; i < n; i++ {
		if chars[i] < 0x20 || chars[i] > 0x7e {
			return fmt.Sprintf("0x%08x", w)
		}
	}
	return string(chars[:n])
}
