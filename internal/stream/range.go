// Package stream implements the partial-content plumbing for the media
// proxy: translating Range headers into byte windows and relaying remote
// byte streams to HTTP responses.
package stream

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Mode says how a request will be answered.
type Mode int

const (
	// ModeFull serves the whole object with a 200.
	ModeFull Mode = iota
	// ModePartial serves one byte window with a 206.
	ModePartial
	// ModeUnsatisfiable answers 416 with an empty body.
	ModeUnsatisfiable
)

// Plan is the outcome of translating a Range header against an object size.
type Plan struct {
	Mode          Mode
	Start, End    int64 // inclusive window, valid for ModePartial
	Status        int
	ContentLength int64  // body length, 0 for ModeUnsatisfiable
	ContentRange  string // Content-Range header value, empty for ModeFull
}

// Translate computes the response plan for rangeHeader against totalSize.
//
// Only a single contiguous window is supported. A multi-range header, or one
// that cannot be parsed at all, is answered as a full-content response so
// that malformed input never breaks playback. A syntactically valid window
// that lies past the end of the object is answered 416; a window whose end
// overshoots is clamped to the last byte. This 416 policy is applied
// uniformly to every code path.
func Translate(rangeHeader string, totalSize int64) Plan {
	full := Plan{Mode: ModeFull, Status: http.StatusOK, ContentLength: totalSize}

	spec, ok := strings.CutPrefix(strings.TrimSpace(rangeHeader), "bytes=")
	if rangeHeader == "" || !ok || strings.Contains(spec, ",") {
		return full
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return full
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	var start, end int64
	switch {
	case startStr == "" && endStr == "":
		return full
	case startStr == "":
		// Suffix form bytes=-N: the final N bytes. A zero-length suffix
		// parses cleanly and lands on start == totalSize, which the
		// satisfiability check below turns into a 416.
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n < 0 {
			return full
		}
		start = totalSize - n
		if start < 0 {
			start = 0
		}
		end = totalSize - 1
	default:
		var err error
		start, err = strconv.ParseInt(startStr, 10, 64)
		if err != nil || start < 0 {
			return full
		}
		end = totalSize - 1
		if endStr != "" {
			end, err = strconv.ParseInt(endStr, 10, 64)
			if err != nil || end < 0 {
				return full
			}
			if end > totalSize-1 {
				end = totalSize - 1
			}
		}
	}

	if start >= totalSize || start > end {
		return Plan{
			Mode:         ModeUnsatisfiable,
			Status:       http.StatusRequestedRangeNotSatisfiable,
			ContentRange: fmt.Sprintf("bytes */%d", totalSize),
		}
	}

	return Plan{
		Mode:          ModePartial,
		Start:         start,
		End:           end,
		Status:        http.StatusPartialContent,
		ContentLength: end - start + 1,
		ContentRange:  fmt.Sprintf("bytes %d-%d/%d", start, end, totalSize),
	}
}
