package platform

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// MaxFilenameLength caps sanitized base names so outputs stay portable.
const MaxFilenameLength = 100

// AudioExtensions is the fallback scan order when resolving the output of an
// audio post-processing step whose final extension is not known up front.
var AudioExtensions = []string{".mp3", ".m4a", ".ogg", ".wav", ".flac"}

// FileSize returns the size of the file in bytes, or 0 when it does not
// exist or cannot be read.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// FileTooLarge reports whether the file exceeds maxBytes.
func FileTooLarge(path string, maxBytes int64) bool {
	return FileSize(path) > maxBytes
}

// Cleanup removes a file if it exists. Failures are logged, never returned:
// cleanup runs on every exit path and must not mask the original error.
func Cleanup(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}
	if err := os.Remove(path); err != nil {
		logrus.WithField("path", path).WithError(err).Warn("failed to clean up file")
		return
	}
	logrus.WithField("path", path).Debug("cleaned up file")
}

// SanitizeFilename replaces characters that are invalid on common
// filesystems and truncates overly long names.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"<", "_", ">", "_", ":", "_", "\"", "_",
		"/", "_", "\\", "_", "|", "_", "?", "_", "*", "_",
	)
	name = replacer.Replace(name)
	if len(name) > MaxFilenameLength {
		name = name[:MaxFilenameLength]
	}
	return strings.TrimSpace(name)
}

// EnsureDir creates the directory if it does not exist.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, DefaultDirPermissions)
	}
	return nil
}

// ResolveAudioFile finds the real output of an audio extraction step. The
// post-processor rewrites the extension of the reported filename, so the
// expected extension is probed first, then the common audio extensions
// sharing the same base name, then the reported name as a last resort.
func ResolveAudioFile(reported string, expectedExt string) string {
	base := strings.TrimSuffix(reported, filepath.Ext(reported))

	if expectedExt != "" {
		if !strings.HasPrefix(expectedExt, ".") {
			expectedExt = "." + expectedExt
		}
		if candidate := base + expectedExt; FileSize(candidate) > 0 {
			return candidate
		}
	}

	for _, ext := range AudioExtensions {
		if candidate := base + ext; FileSize(candidate) > 0 {
			return candidate
		}
	}

	return reported
}
