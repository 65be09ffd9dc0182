// Package playback streams local media files over HTTP with partial
// content support for seekable playback.
package playback

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound reports that the resolved media path does not exist.
	ErrNotFound = errors.New("playback: file not found")
	// ErrInvalidRange reports a malformed or unsatisfiable Range header.
	// ServeFile has already written the 416 response when returning it.
	ErrInvalidRange = errors.New("playback: invalid range")
)

// Service serves byte spans of media files. Each request opens its own
// read handle scoped to the response lifetime; nothing is shared between
// requests.
type Service struct {
	fs afero.Fs
}

// NewService creates a streamer over the given filesystem.
func NewService(fsys afero.Fs) *Service {
	return &Service{fs: fsys}
}

// ServeFile streams path to w. Without a Range header the whole file is
// sent with status 200. A "bytes=<start>-[<end>]" header yields status
// 206 with exactly the requested span; end defaults to the last byte.
// Malformed or out-of-bounds ranges are rejected with 416. When
// contentType is empty the file content is sniffed.
func (s *Service) ServeFile(w http.ResponseWriter, rangeHeader, path, contentType string) error {
	info, err := s.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()

	f, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if contentType == "" {
		contentType = sniffContentType(f)
	}

	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("stream %s: %w", path, err)
		}
		return nil
	}

	start, end, err := parseRange(rangeHeader, size)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, err.Error(), http.StatusRequestedRangeNotSatisfiable)
		return fmt.Errorf("%w: %q: %v", ErrInvalidRange, rangeHeader, err)
	}

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return fmt.Errorf("seek %s: %w", path, err)
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(end-start+1, 10))
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusPartialContent)

	if _, err := io.CopyN(w, f, end-start+1); err != nil {
		return fmt.Errorf("stream %s: %w", path, err)
	}
	return nil
}

// parseRange interprets a "bytes=<start>-[<end>]" header against the file
// size. Multi-range requests and suffix forms are not supported; start is
// required and both bounds must fall inside the file.
func parseRange(header string, size int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("unsupported range unit in %q", header)
	}

	first, rest, ok := strings.Cut(spec, "-")
	if !ok || strings.Contains(rest, ",") {
		return 0, 0, fmt.Errorf("malformed range %q", header)
	}

	start, err = strconv.ParseInt(strings.TrimSpace(first), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed range start %q", header)
	}

	end = size - 1
	if trimmed := strings.TrimSpace(rest); trimmed != "" {
		end, err = strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("malformed range end %q", header)
		}
	}

	if start < 0 || end > size-1 || start > end {
		return 0, 0, fmt.Errorf("range %d-%d outside file of %d bytes", start, end, size)
	}

	return start, end, nil
}

func sniffContentType(f afero.File) string {
	mt, err := mimetype.DetectReader(f)
	if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
		return "application/octet-stream"
	}
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
