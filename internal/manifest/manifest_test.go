package manifest

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseArray(t *testing.T) {
	data := []byte(`[
		{"binary": "a.bin", "dictionary": "dict.log", "min_level": 3},
		{"binary": "b.bin", "output": "b-decoded.txt"}
	]`)

	jobs, err := Parse(data, Defaults{Dictionary: "default.log", MinLevel: 1})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(jobs))
	}

	if jobs[0].Dictionary != "dict.log" || jobs[0].MinLevel != 3 || jobs[0].Output != "a.txt" {
		t.Errorf("Job 0: %+v", jobs[0])
	}
	if jobs[1].Dictionary != "default.log" || jobs[1].MinLevel != 1 || jobs[1].Output != "b-decoded.txt" {
		t.Errorf("Job 1: %+v", jobs[1])
	}
	if jobs[0].ID == "" || jobs[0].ID == jobs[1].ID {
		t.Errorf("Job IDs not unique: %q vs %q", jobs[0].ID, jobs[1].ID)
	}
}

func TestParseSingleObject(t *testing.T) {
	jobs, err := Parse([]byte(`{"binary": "only.bin", "dictionary": "d.log"}`), Defaults{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Binary != "only.bin" {
		t.Errorf("Jobs: %+v", jobs)
	}
}

func TestParseMissingBinary(t *testing.T) {
	if _, err := Parse([]byte(`[{"dictionary": "d.log"}]`), Defaults{}); err == nil {
		t.Error("Job without binary must fail")
	}
}

func TestParseNoDictionaryAnywhere(t *testing.T) {
	if _, err := Parse([]byte(`[{"binary": "a.bin"}]`), Defaults{}); err == nil {
		t.Error("Job without dictionary and no default must fail")
	}
}

func TestParseBadJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"binary": `), Defaults{}); err == nil {
		t.Error("Malformed manifest must fail")
	}
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()

	dictPath := filepath.Join(dir, "dict.log")
	if err := os.WriteFile(dictPath, []byte("0;1;init.c:45;BOOT;System started\x00"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var raw []byte
	raw = binary.LittleEndian.AppendUint32(raw, 0) // timestamp
	raw = binary.LittleEndian.AppendUint32(raw, 0) // log_id: offset 0, no args
	binPath := filepath.Join(dir, "boot.bin")
	if err := os.WriteFile(binPath, raw, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	outPath := filepath.Join(dir, "boot.txt")
	jobs := []Job{{ID: "test-job", Binary: binPath, Dictionary: dictPath, Output: outPath}}

	log := logrus.New()
	log.SetOutput(io.Discard)
	if err := Run(jobs, log); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	if !strings.Contains(string(out), "System started") || !strings.Contains(string(out), "[BOOT]") {
		t.Errorf("Output %q", out)
	}
}

func TestRunSharesDictionaryAcrossJobs(t *testing.T) {
	dir := t.TempDir()

	dictPath := filepath.Join(dir, "dict.log")
	if err := os.WriteFile(dictPath, []byte("0;1;a.c:1;SYS;tick\x00"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var jobs []Job
	for _, name := range []string{"one", "two"} {
		var raw []byte
		raw = binary.LittleEndian.AppendUint32(raw, 42)
		raw = binary.LittleEndian.AppendUint32(raw, 0)
		binPath := filepath.Join(dir, name+".bin")
		if err := os.WriteFile(binPath, raw, 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		jobs = append(jobs, Job{
			ID:         name,
			Binary:     binPath,
			Dictionary: dictPath,
			Output:     filepath.Join(dir, name+".txt"),
		})
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	if err := Run(jobs, log); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, job := range jobs {
		if _, err := os.Stat(job.Output); err != nil {
			t.Errorf("Output %s missing: %v", job.Output, err)
		}
	}
}
