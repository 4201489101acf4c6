package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"vidvault/internal/metrics"
	"vidvault/internal/service"

	"github.com/labstack/echo/v4"
)

// maxMultipleFiles caps one multi-file upload request.
const maxMultipleFiles = 10

func readMultipartFile(fh *multipart.FileHeader) (service.UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return service.UploadFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.UploadFile{}, err
	}
	return service.UploadFile{
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get(echo.HeaderContentType),
		Data:         data,
	}, nil
}

func uploadResultPayload(r service.UploadResult) map[string]any {
	return map[string]any{
		"url":           r.URL,
		"fileId":        r.Identifier,
		"fileName":      r.FileName,
		"originalName":  r.OriginalName,
		"size":          r.Size,
		"sizeFormatted": formatSize(r.Size),
	}
}

func (h *Handler) UploadVideo(c echo.Context) error {
	fh, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no video file provided")
	}

	file, err := readMultipartFile(fh)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
	}

	res, err := h.svc.Upload(c.Request().Context(), file, c.FormValue("folder"))
	if err != nil {
		metrics.UploadFailuresTotal.Inc()
		return mapServiceError(err)
	}
	metrics.UploadedBytesTotal.Add(float64(res.Size))

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "video uploaded successfully",
		"data":    uploadResultPayload(res),
	})
}

func (h *Handler) UploadMultiple(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no files provided")
	}
	headers := form.File["videos"]
	if len(headers) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files provided")
	}
	if len(headers) > maxMultipleFiles {
		return echo.NewHTTPError(http.StatusBadRequest, "too many files: at most 10 per request")
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		file, err := readMultipartFile(fh)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "failed to read uploaded file")
		}
		files = append(files, file)
	}

	results, succeeded := h.svc.UploadMany(c.Request().Context(), files, c.FormValue("folder"))

	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			metrics.UploadFailuresTotal.Inc()
			out = append(out, map[string]any{
				"success":      false,
				"originalName": r.OriginalName,
				"error":        r.Err.Error(),
			})
			continue
		}
		metrics.UploadedBytesTotal.Add(float64(r.Size))
		payload := uploadResultPayload(r)
		payload["success"] = true
		out = append(out, payload)
	}

	// Multi-file uploads answer 200 even when individual slots fail; the
	// per-file entries and the count in the message carry the outcome.
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": uploadSummary(succeeded, len(results)),
		"data":    out,
	})
}

func uploadSummary(succeeded, total int) string {
	return fmt.Sprintf("%d of %d files uploaded successfully", succeeded, total)
}

func (h *Handler) ListUploads(c echo.Context) error {
	folder := strings.TrimSpace(c.QueryParam("folder"))

	objects, err := h.svc.ListUploads(c.Request().Context(), folder)
	if err != nil {
		return mapServiceError(err)
	}

	files := make([]map[string]any, 0, len(objects))
	for _, obj := range objects {
		files = append(files, map[string]any{
			"name":          obj.Name,
			"size":          obj.Size,
			"sizeFormatted": formatSize(obj.Size),
			"url":           obj.URL,
		})
	}
	if folder == "" {
		folder = h.cfg.UploadFolder
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"folder": folder,
			"count":  len(files),
			"files":  files,
		},
	})
}

func (h *Handler) DeleteUpload(c echo.Context) error {
	// Identifiers contain slashes, so clients send them percent-encoded.
	identifier, err := url.PathUnescape(c.Param("identifier"))
	if err != nil {
		identifier = c.Param("identifier")
	}
	if err := h.svc.DeleteUpload(c.Request().Context(), identifier); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "file deleted successfully",
	})
}
