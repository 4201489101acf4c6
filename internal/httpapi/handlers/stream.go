package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"vidvault/internal/metrics"
	"vidvault/internal/storage"
	"vidvault/internal/stream"

	"github.com/labstack/echo/v4"
)

// Streamed responses always declare the generic video type. Whatever
// content type the backend stored with the object is not forwarded.
const streamContentType = "video/mp4"

// StreamVideo proxies one object from remote storage to the client,
// honoring the Range header. The real backend location never reaches the
// client; all responses look like they came from this server.
func (h *Handler) StreamVideo(c echo.Context) error {
	rawURL := c.QueryParam("url")
	if rawURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url query parameter is required")
	}
	locator, err := url.QueryUnescape(rawURL)
	if err != nil {
		locator = rawURL
	}

	ctx := c.Request().Context()
	sess, err := h.svc.OpenStream(ctx, locator)
	if err != nil {
		metrics.StreamSessionsTotal.WithLabelValues("error").Inc()
		return mapServiceError(err)
	}

	plan := stream.Translate(c.Request().Header.Get("Range"), sess.Size)

	header := c.Response().Header()
	header.Set("Accept-Ranges", "bytes")
	header.Set("Cache-Control", "public, max-age=3600")

	if plan.Mode == stream.ModeUnsatisfiable {
		metrics.StreamSessionsTotal.WithLabelValues("unsatisfiable").Inc()
		header.Set("Content-Range", plan.ContentRange)
		return c.NoContent(plan.Status)
	}

	var rng *storage.ByteRange
	if plan.Mode == stream.ModePartial {
		rng = &storage.ByteRange{Start: plan.Start, End: plan.End}
		header.Set("Content-Range", plan.ContentRange)
	}
	header.Set(echo.HeaderContentType, streamContentType)
	header.Set(echo.HeaderContentLength, strconv.FormatInt(plan.ContentLength, 10))

	body, err := sess.Open(ctx, rng)
	if err != nil {
		metrics.StreamSessionsTotal.WithLabelValues("error").Inc()
		return mapServiceError(err)
	}
	defer body.Close()

	c.Response().WriteHeader(plan.Status)

	n, err := stream.Relay(c.Response(), body)
	metrics.StreamedBytesTotal.Add(float64(n))
	if err != nil {
		// Headers are already committed; all we can do is log and drop
		// the connection.
		var we *stream.WriteError
		var re *stream.ReadError
		switch {
		case errors.As(err, &we):
			log.Printf("stream: client went away after %d bytes of %s", n, sess.Ref.Key)
		case errors.As(err, &re):
			log.Printf("stream: backend read failed after %d bytes of %s: %v", n, sess.Ref.Key, err)
		default:
			log.Printf("stream: relay failed after %d bytes of %s: %v", n, sess.Ref.Key, err)
		}
		metrics.StreamSessionsTotal.WithLabelValues("aborted").Inc()
		return nil
	}

	metrics.StreamSessionsTotal.WithLabelValues("ok").Inc()
	return nil
}
