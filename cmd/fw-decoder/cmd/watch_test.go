package cmd

import "testing"

func TestWatchOutput(t *testing.T) {
	cases := []struct {
		in   string
		out  string
		want bool
	}{
		{"capture.bin", "capture.txt", true},
		{"capture.BIN", "capture.txt", true},
		{"capture.log", "capture.log.txt", true},
		{"capture.txt", "", false},
		{"dict.yaml", "", false},
		{"capture", "", false},
	}
	for _, c := range cases {
		out, ok := watchOutput(c.in)
		if ok != c.want || out != c.out {
			t.Errorf("watchOutput(%q) = %q, %v; want %q, %v", c.in, out, ok, c.out, c.want)
		}
	}
}

func TestWatchOutputNoCollisionAcrossExtensions(t *testing.T) {
	binOut, _ := watchOutput("device/capture.bin")
	logOut, _ := watchOutput("device/capture.log")
	if binOut == logOut {
		t.Errorf("Same-stem .bin and .log map to one output: %q", binOut)
	}
}
