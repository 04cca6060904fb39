package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"media-gallery/internal/filesystem"
	"media-gallery/internal/logging"
	"media-gallery/internal/metrics"
)

// hasParentSegment reports whether p contains a ".." component. Both slash
// styles are checked so a Windows-style request cannot slip past.
func hasParentSegment(p string) bool {
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func reject(reason, requested string, err error) error {
	metrics.PathRejectionsTotal.WithLabelValues(reason).Inc()
	logging.Debug("Path rejected (%s): %q", reason, requested)
	return err
}

// within reports whether target is root or lies below it. Both must already
// be canonical.
func within(root, target string) bool {
	if target == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(target, prefix)
}

// Resolve validates that requested names an existing directory inside root
// and returns its canonical absolute path. Any ".." segment fails outright
// with ErrPathTraversal; symlinks pointing outside root fail the same way.
// Failures wrap ErrNotFound.
func Resolve(root, requested string) (string, error) {
	if hasParentSegment(requested) {
		return "", reject("traversal", requested, ErrPathTraversal)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve gallery root: %w", err)
	}
	canonRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", reject("not_found", requested, fmt.Errorf("%w: gallery root %s", ErrDirectoryNotFound, root))
	}

	candidate := filepath.Join(canonRoot, filepath.FromSlash(strings.TrimLeft(requested, `/\`)))
	canonTarget, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", reject("not_found", requested, ErrDirectoryNotFound)
	}
	if !within(canonRoot, canonTarget) {
		return "", reject("outside_root", requested, ErrPathTraversal)
	}

	info, err := filesystem.StatWithRetry(canonTarget, filesystem.DefaultRetryConfig())
	if err != nil {
		return "", reject("not_found", requested, ErrDirectoryNotFound)
	}
	if !info.IsDir() {
		return "", reject("not_directory", requested, ErrDirectoryNotFound)
	}

	return canonTarget, nil
}

// ResolveFile joins a bare filename onto an already resolved directory.
// Names carrying a separator or a parent reference are rejected; the file
// itself is not required to exist.
func ResolveFile(dir, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", reject("traversal", name, ErrPathTraversal)
	}
	return filepath.Join(dir, name), nil
}

// Rel returns the slash-separated path of target relative to root, with ""
// for root itself.
func Rel(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
