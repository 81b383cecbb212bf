package pptx

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

// ResolveOutputPath normalizes a requested save path. Relative paths land
// under safeDir; absolute paths under OS-managed install locations (or the
// server executable's own directory) are redirected there too, keeping the
// base name. Other absolute paths are honored as given. The .pptx extension
// is appended when missing. The second return reports whether the request
// was redirected into safeDir.
func ResolveOutputPath(requested, safeDir string) (string, bool, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return "", false, tools.NewBadArgument("output path must not be empty")
	}
	if strings.HasPrefix(requested, "~/") || requested == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, tools.NewIOError(err, "resolving home directory")
		}
		requested = filepath.Join(home, strings.TrimPrefix(requested, "~"))
	}
	if ext := strings.ToLower(filepath.Ext(requested)); ext != ".pptx" {
		requested += ".pptx"
	}
	if filepath.IsAbs(requested) {
		cleaned := filepath.Clean(requested)
		if protectedPath(cleaned) {
			return filepath.Join(safeDir, filepath.Base(cleaned)), true, nil
		}
		return cleaned, false, nil
	}
	joined := filepath.Join(safeDir, requested)
	rel, err := filepath.Rel(safeDir, joined)
	if err != nil || strings.HasPrefix(rel, "..") {
		joined = filepath.Join(safeDir, filepath.Base(requested))
	}
	return joined, true, nil
}

// protectedPath reports whether an absolute path falls inside an OS-managed
// install location where application writes do not belong.
func protectedPath(path string) bool {
	prefixes := []string{"/usr", "/opt", "/etc", "/bin", "/sbin", "/lib"}
	if runtime.GOOS == "windows" {
		prefixes = []string{`C:\Program Files`, `C:\Program Files (x86)`, `C:\Windows`}
	}
	if exe, err := os.Executable(); err == nil {
		prefixes = append(prefixes, filepath.Dir(exe))
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix+string(filepath.Separator)) || path == prefix {
			return true
		}
	}
	return false
}
