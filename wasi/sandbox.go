package wasi

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// ErrNotCapable indicates an operation outside the rights granted to the
// descriptor it was invoked on.
var ErrNotCapable = errors.New("capabilities insufficient")

// ErrPathEscapes indicates a guest-supplied path that resolves outside the
// preopen directory it is relative to.
var ErrPathEscapes = errors.New("path escapes preopen directory")

// maxSymlinkDepth bounds symlink expansion during path resolution so that
// link cycles terminate.
const maxSymlinkDepth = 40

// sanitizePath normalizes a guest-supplied path to a clean, slash-separated
// relative path. Guest paths are untrusted: NUL bytes are rejected outright,
// absolute paths and any ".." sequence that would climb above the starting
// directory are rejected as escapes. The component depth is tracked during
// normalization and is never allowed to go negative, so "a/../../b" is an
// escape even though it contains no leading "..".
func sanitizePath(name string) (string, error) {
	if strings.IndexByte(name, 0) >= 0 {
		return "", os.ErrInvalid
	}
	if name == "" {
		return "", os.ErrNotExist
	}
	if name[0] == '/' {
		return "", ErrPathEscapes
	}

	var components []string
	for _, c := range strings.Split(name, "/") {
		switch c {
		case "", ".":
			// skip
		case "..":
			if len(components) == 0 {
				return "", ErrPathEscapes
			}
			components = components[:len(components)-1]
		default:
			components = append(components, c)
		}
	}
	if len(components) == 0 {
		return ".", nil
	}
	return strings.Join(components, "/"), nil
}

// confinePath resolves the sanitized slash-separated path rel against root,
// expanding any symlinks encountered along the way and re-validating each
// expansion against root. A link whose target climbs above root, lexically
// or via an absolute path, is an escape. When followFinal is false a symlink
// in the final position is left unexpanded so that callers can operate on
// the link itself.
//
// The returned path is a host path rooted at root. Resolution is lexical
// plus lstat: it does not hold the intermediate directories open, so it
// guards against misbehaving guests rather than a concurrently mutating
// host file system.
func confinePath(root, rel string, followFinal bool) (string, error) {
	remaining := strings.Split(rel, "/")
	var walked []string
	depth := 0

	for len(remaining) > 0 {
		c := remaining[0]
		remaining = remaining[1:]

		switch c {
		case "", ".":
			continue
		case "..":
			if len(walked) == 0 {
				return "", ErrPathEscapes
			}
			walked = walked[:len(walked)-1]
			continue
		}

		cur := filepath.Join(root, filepath.Join(walked...), c)
		info, err := os.Lstat(cur)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// Nonexistent components are legal: the path may name a file
				// about to be created.
				walked = append(walked, c)
				continue
			}
			return "", err
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if len(remaining) == 0 && !followFinal {
				walked = append(walked, c)
				continue
			}

			depth++
			if depth > maxSymlinkDepth {
				return "", syscall.ELOOP
			}
			target, err := os.Readlink(cur)
			if err != nil {
				return "", err
			}
			if target == "" {
				return "", os.ErrInvalid
			}
			if filepath.IsAbs(target) || target[0] == '/' {
				return "", ErrPathEscapes
			}
			// Splice the target's components in place of the link and keep
			// walking; ".." inside the target is re-checked by the loop.
			remaining = append(strings.Split(filepath.ToSlash(target), "/"), remaining...)
			continue
		}

		walked = append(walked, c)
	}

	if len(walked) == 0 {
		return root, nil
	}
	return filepath.Join(root, filepath.Join(walked...)), nil
}
