package input

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

func TestDecodePassthrough(t *testing.T) {
	raw := []byte{0x00, 0x01, 0x02, 0xff}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Raw data changed: %v", got)
	}
}

func TestDecodeGzip(t *testing.T) {
	raw := []byte("0;1;init.c:45;SYS_INIT;System started\x00")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}

	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Got %q, want %q", got, raw)
	}
}

func TestDecodeZstd(t *testing.T) {
	raw := bytes.Repeat([]byte("binary log payload "), 50)

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	compressed := enc.EncodeAll(raw, nil)
	enc.Close()

	got, err := Decode(compressed)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Error("zstd round trip mismatch")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fw.bin")
	raw := []byte{1, 2, 3, 4}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("Got %v", got)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.bin")); err == nil {
		t.Error("Missing file must error")
	}
}
