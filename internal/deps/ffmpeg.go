package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFmpeg reports the ffmpeg binary handed to yt-dlp and the tagger.
//
// A configured value containing a path separator is used as-is. Otherwise a
// bundled binary in a bin directory next to the spotigrab executable wins over
// resolving the configured name from PATH, so portable installs that ship
// their own ffmpeg work without touching PATH.
func ResolveFFmpeg(configured string) Status {
	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	return resolveFFmpeg(configured, exeDir)
}

func resolveFFmpeg(configured, exeDir string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Used by yt-dlp for audio extraction and for tagging non-MP3 files",
	}
	name := strings.TrimSpace(configured)
	if name == "" {
		name = "ffmpeg"
	}

	if strings.ContainsRune(name, os.PathSeparator) {
		result.Command = name
		if info, err := os.Stat(name); err == nil && isExecutable(info) {
			result.Available = true
			return result
		}
		result.Detail = fmt.Sprintf("binary %q not found or not executable", name)
		return result
	}

	if exeDir != "" {
		candidate := filepath.Join(exeDir, "bin", executableName(name))
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			result.Command = candidate
			result.Available = true
			return result
		}
	}

	if resolved, err := exec.LookPath(name); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}

	result.Command = name
	result.Detail = fmt.Sprintf("binary %q not found", name)
	return result
}

func executableName(base string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(base), ".exe") {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
