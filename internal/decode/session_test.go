package decode

import (
	"testing"
	"time"
)

func TestSegmenterFreshState(t *testing.T) {
	var s segmenter
	got := []int{s.observe(100), s.observe(200), s.observe(50), s.observe(300)}
	want := []int{0, 0, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("observe #%d = %d, want %d", i, got[i], want[i])
		}
	}

	var fresh segmenter
	if fresh.observe(5) != 0 {
		t.Error("New segmenter must start at cycle 0")
	}
}

func TestSessionsSummarise(t *testing.T) {
	entries := []Entry{
		{TimestampMS: 100, BootCycle: 0, Message: "a"},
		{TimestampMS: 250, BootCycle: 0, Message: "b"},
		{TimestampMS: 10, BootCycle: 1, Message: "c"},
		{TimestampMS: 90, BootCycle: 1, Message: "d"},
		{TimestampMS: 120, BootCycle: 1, Message: "e"},
	}

	sessions := Sessions(entries)
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if s := sessions[0]; s.Index != 0 || s.FirstMS != 100 || s.LastMS != 250 || s.Entries != 2 {
		t.Errorf("Session 0: %+v", s)
	}
	if s := sessions[1]; s.Index != 1 || s.FirstMS != 10 || s.LastMS != 120 || s.Entries != 3 {
		t.Errorf("Session 1: %+v", s)
	}
}

func TestSessionsSkipFilteredCycles(t *testing.T) {
	// The level filter may remove a cycle's entries entirely; summaries
	// keep the original indices of the cycles that survive.
	entries := []Entry{
		{TimestampMS: 100, BootCycle: 0},
		{TimestampMS: 40, BootCycle: 2},
	}

	sessions := Sessions(entries)
	if len(sessions) != 2 || sessions[1].Index != 2 {
		t.Errorf("Sessions: %+v", sessions)
	}
}

func TestSessionWallClockAnchor(t *testing.T) {
	entries := []Entry{
		{TimestampMS: 100, BootCycle: 0, Message: "boot"},
		{TimestampMS: 69808, BootCycle: 0, Message: "Date time set rcvd: 1756474625"},
		{TimestampMS: 70000, BootCycle: 0, Message: "tick"},
	}

	sessions := Sessions(entries)
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	want := time.Unix(1756474625, 0).UTC()
	if !sessions[0].WallClock.Equal(want) {
		t.Errorf("WallClock = %v, want %v", sessions[0].WallClock, want)
	}
}

func TestSessionWallClockAbsent(t *testing.T) {
	sessions := Sessions([]Entry{{TimestampMS: 1, Message: "nothing to see"}})
	if !sessions[0].WallClock.IsZero() {
		t.Errorf("WallClock should stay zero, got %v", sessions[0].WallClock)
	}
}

func TestParseDateTimeMessageMalformed(t *testing.T) {
	if _, ok := parseDateTimeMessage("Date time set rcvd: soon"); ok {
		t.Error("Non-numeric epoch must not parse")
	}
}
