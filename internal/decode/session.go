package decode

import (
	"strconv"
	"strings"
	"time"
)

// segmenter detects boot-cycle boundaries: the on-device millisecond
// counter restarts at reboot, so a timestamp lower than its predecessor
// starts a new cycle. State is one previous timestamp and a counter,
// fresh per decode call.
type segmenter struct {
	prev    uint32
	cycle   int
	started bool
}

func (s *segmenter) observe(ts uint32) int {
	if s.started && ts < s.prev {
		s.cycle++
	}
	s.prev = ts
	s.started = true
	return s.cycle
}

// Session summarises one boot cycle of decoded entries.
type Session struct {
	Index   int    `json:"index"`
	FirstMS uint32 `json:"first_ms"`
	LastMS  uint32 `json:"last_ms"`
	Entries int    `json:"entries"`
	// WallClock anchors the cycle to real-world time when the device
	// logged a "Date time set rcvd" message; zero otherwise.
	WallClock time.Time `json:"wall_clock,omitzero"`
}

// dateTimeMarker precedes the epoch the device reports once its clock is
// set over the protocol.
const dateTimeMarker = "Date time set rcvd:"

// Sessions groups decoded entries by boot cycle, in order.
func Sessions(entries []Entry) []Session {
	var out []Session
	for _, e := range entries {
		if len(out) == 0 || out[len(out)-1].Index != e.BootCycle {
			out = append(out, Session{Index: e.BootCycle, FirstMS: e.TimestampMS})
		}
		s := &out[len(out)-1]
		s.LastMS = e.TimestampMS
		s.Entries++
		if epoch, ok := parseDateTimeMessage(e.Message); ok {
			s.WallClock = time.Unix(epoch, 0).UTC()
		}
	}
	return out
}

func parseDateTimeMessage(msg string) (int64, bool) {
	idx := strings.Index(msg, dateTimeMarker)
	if idx < 0 {
		return 0, false
	}
	epoch, err := strconv.ParseInt(strings.TrimSpace(msg[idx+len(dateTimeMarker):]), 10, 64)
	if err != nil {
		return 0, false
	}
	return epoch, true
}
