// Package platform wraps the small set of filesystem operations that differ
// across operating systems, chiefly symlink creation on Windows.
package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// sidecarSuffix marks the fallback file that records a link target when a
// real symlink could not be created.
const sidecarSuffix = ".hawk-target"

// CreateSymlink creates a symbolic link at link pointing to target.
// On Windows without developer mode it falls back to copying the target and
// writing a sidecar file so ReadSymlinkTarget can still resolve it.
func CreateSymlink(target, link string) error {
	if runtime.GOOS != "windows" {
		return os.Symlink(target, link)
	}

	if err := os.Symlink(target, link); err == nil {
		return nil
	}

	if err := copyFallback(target, link); err != nil {
		return fmt.Errorf("symlink fallback copy: %w", err)
	}
	// Best effort: a missing sidecar only degrades target resolution.
	os.WriteFile(link+sidecarSuffix, []byte(target), 0o644)
	return nil
}

// RemoveSymlink removes a symlink or its fallback copy plus sidecar.
func RemoveSymlink(path string) error {
	err := os.Remove(path)
	os.Remove(path + sidecarSuffix)
	return err
}

// ReadSymlinkTarget returns the target of a symlink, consulting the sidecar
// file when the link is a Windows copy fallback.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil {
		return target, nil
	}
	if runtime.GOOS != "windows" {
		return "", err
	}
	data, readErr := os.ReadFile(path + sidecarSuffix)
	if readErr != nil {
		return "", fmt.Errorf("readlink failed and no sidecar found: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// copyFallback copies target to dst, resolving relative targets against the
// link's parent directory the way the OS would.
func copyFallback(target, dst string) error {
	src := target
	if !filepath.IsAbs(src) {
		src = filepath.Join(filepath.Dir(dst), src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
