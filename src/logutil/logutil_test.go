package logutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	w, err := openRotating()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	chunk := bytes.Repeat([]byte("x"), 1024*1024)
	for i := 0; i < 11; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, logFileName+".1")); err != nil {
		t.Fatalf("expected first archive: %v", err)
	}
	st, err := os.Stat(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != int64(len(chunk)) {
		t.Errorf("current log size = %d, want %d", st.Size(), len(chunk))
	}
}

func TestArchivesCapped(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	for i := 0; i < maxArchives+2; i++ {
		if err := os.WriteFile(logFileName, []byte{byte(i)}, 0o666); err != nil {
			t.Fatal(err)
		}
		forceRotate()
	}
	for n := 1; n <= maxArchives; n++ {
		if _, err := os.Stat(archiveName(n)); err != nil {
			t.Errorf("archive %d missing: %v", n, err)
		}
	}
	if _, err := os.Stat(archiveName(maxArchives + 1)); !os.IsNotExist(err) {
		t.Errorf("archive %d should not exist", maxArchives+1)
	}
	// newest rotation lands in .1
	data, err := os.ReadFile(archiveName(1))
	if err != nil || len(data) != 1 || data[0] != byte(maxArchives+1) {
		t.Errorf("archive 1 = %v, %v", data, err)
	}
}

func TestRedactHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("no home directory")
	}
	tests := []struct {
		in, want string
	}{
		{home, "~"},
		{filepath.Join(home, "Downloads", "Snapshot", "a.png"), "~" + string(filepath.Separator) + filepath.Join("Downloads", "Snapshot", "a.png")},
		{home + "other", home + "other"},
		{"/elsewhere/a.png", "/elsewhere/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := RedactHome(tt.in); got != tt.want {
				t.Errorf("RedactHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
