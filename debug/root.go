package debug

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"spyglass/internal/stack"
)

// sourceFile is the location of this file as recorded by the compiler.
var sourceFile = func() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.ToSlash(file)
}()

// rootFrom derives the root path stripped from every displayed path: the
// prefix before /vendor/ or /pkg/mod/ when the engine is a dependency,
// otherwise the directory above the debug package. The result ends in "/"
// or is empty.
func rootFrom(file string) string {
	if file == "" {
		return ""
	}
	for _, marker := range []string{"/vendor/", "/pkg/mod/"} {
		if i := strings.Index(file, marker); i >= 0 {
			return file[:i+1]
		}
	}
	root := path.Dir(path.Dir(file))
	if root == "." || root == "/" {
		return ""
	}
	return root + "/"
}

// selfMatcher matches frames from the engine's own rendering code. Test
// files in those directories are never matched.
func selfMatcher(file string) stack.Matcher {
	if file == "" {
		return func(stack.Frame) bool { return false }
	}
	module := path.Dir(path.Dir(file))
	return stack.DirMatcher(
		path.Join(module, "debug"),
		path.Join(module, "internal", "render"),
		path.Join(module, "internal", "stack"),
		path.Join(module, "sink"),
	)
}

// limitPath strips root from p. Absolute paths outside root keep their last
// two segments; relative paths are cleaned.
func limitPath(root, p string) string {
	if p == "" {
		return ""
	}
	abs := filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/")
	p = filepath.ToSlash(p)
	if root != "" && strings.HasPrefix(p, root) {
		return strings.TrimPrefix(p, root)
	}
	if !abs {
		return path.Clean(p)
	}
	p = strings.TrimPrefix(p, filepath.ToSlash(filepath.VolumeName(p)))
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, "/")
}
