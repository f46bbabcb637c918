package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")

	if size := FileSize(path); size != 0 {
		t.Errorf("Expected 0 for missing file, got %d", size)
	}

	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if size := FileSize(path); size != 10 {
		t.Errorf("Expected size 10, got %d", size)
	}
}

func TestFileTooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, make([]byte, 100), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if FileTooLarge(path, 100) {
		t.Error("Expected file at exactly the limit to be allowed")
	}
	if !FileTooLarge(path, 99) {
		t.Error("Expected file over the limit to be rejected")
	}
	if FileTooLarge(filepath.Join(dir, "missing.mp4"), 1) {
		t.Error("Expected missing file to not be too large")
	}
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	Cleanup(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected file to be removed")
	}

	// removing a missing file is a no-op
	Cleanup(path)
	Cleanup("")
}

func TestSanitizeFilename(t *testing.T) {
	got := SanitizeFilename(`a<b>c:d"e/f\g|h?i*j`)
	want := "a_b_c_d_e_f_g_h_i_j"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	if got := SanitizeFilename(string(long)); len(got) != MaxFilenameLength {
		t.Errorf("Expected truncation to %d, got %d", MaxFilenameLength, len(got))
	}
}

func TestResolveAudioFile(t *testing.T) {
	dir := t.TempDir()
	reported := filepath.Join(dir, "track.webm")

	// nothing on disk: reported name comes back unchanged
	if got := ResolveAudioFile(reported, ".mp3"); got != reported {
		t.Errorf("Expected reported name, got %q", got)
	}

	// expected extension wins when present
	mp3 := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(mp3, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := ResolveAudioFile(reported, "mp3"); got != mp3 {
		t.Errorf("Expected %q, got %q", mp3, got)
	}

	// fallback scan finds other extensions when the expected one is absent
	ogg := filepath.Join(dir, "other.ogg")
	if err := os.WriteFile(ogg, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := ResolveAudioFile(filepath.Join(dir, "other.webm"), ".m4a"); got != ogg {
		t.Errorf("Expected %q, got %q", ogg, got)
	}
}
