// Package docroot resolves request paths to files beneath a document root.
package docroot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

var (
	// ErrInvalidPath indicates that a request path can not be mapped to a
	// location beneath the document root, for example because it would climb
	// out of it.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotFound indicates that no file exists at the resolved location.
	ErrNotFound = errors.New("file not found")
)

// Resolver maps request paths to files beneath Root.
type Resolver struct {
	// Root is the absolute path of the document root.
	Root string

	// ContentTypes enables setting File.ContentType from the file extension.
	// If it is false files are served as opaque bytes.
	ContentTypes bool
}

// File is an open file beneath the document root. The caller must close it.
type File struct {
	*os.File

	// Path is the path of the file on disk.
	Path string

	Size        int64
	ModTime     time.Time
	ContentType string
}

// Resolve opens the file that requestPath refers to.
//
// It returns an error wrapping ErrInvalidPath if requestPath would escape the
// document root, or ErrNotFound if there is no such file. Any other error,
// including requestPath naming a directory, is an I/O failure.
func (r *Resolver) Resolve(ctx context.Context, requestPath string) (*File, error) {
	rel, err := Clean(requestPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Join(r.Root, filepath.FromSlash(rel))

	fp, err := os.Open(name)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, requestPath)
		}
		return nil, err
	}

	info, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}

	if info.IsDir() {
		fp.Close()
		return nil, &fs.PathError{Op: "read", Path: name, Err: syscall.EISDIR}
	}

	file := &File{
		File:    fp,
		Path:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}

	if r.ContentTypes {
		file.ContentType = mime.TypeByExtension(filepath.Ext(name))
	}

	return file, nil
}

// Clean converts a request path into a slash-separated path relative to the
// document root.
//
// "." segments and empty segments are dropped and ".." segments remove the
// preceding segment. A ".." with nothing left to remove, or a NUL byte, is
// reported as ErrInvalidPath.
func Clean(requestPath string) (string, error) {
	if strings.IndexByte(requestPath, 0) != -1 {
		return "", fmt.Errorf("%w: path contains a NUL byte", ErrInvalidPath)
	}

	var segments []string

	for _, seg := range strings.Split(strings.TrimPrefix(requestPath, "/"), "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return "", fmt.Errorf("%w: '%s' is outside the document root", ErrInvalidPath, requestPath)
			}
			segments = segments[:len(segments)-1]
		default:
			// On Windows a backslash is also a separator.
			if filepath.Separator != '/' && strings.ContainsRune(seg, filepath.Separator) {
				return "", fmt.Errorf("%w: '%s' contains a path separator", ErrInvalidPath, requestPath)
			}
			segments = append(segments, seg)
		}
	}

	return strings.Join(segments, "/"), nil
}

// isNotFound returns true if err means the file does not exist, including when
// a leading component of the path is a regular file.
func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
