package handlers

import (
	"net/http"
	"strings"

	"vidvault/internal/store"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func videoPayload(v store.Video) map[string]any {
	additional := make([]map[string]any, 0, len(v.AdditionalVideos))
	for _, av := range v.AdditionalVideos {
		additional = append(additional, map[string]any{
			"id":        av.ID,
			"title":     av.Title,
			"publicId":  av.PublicID,
			"url":       av.RemoteURL,
			"fileId":    av.RemoteFileID,
			"thumbnail": av.Thumbnail,
			"createdAt": toMillis(av.CreatedAt),
		})
	}
	comments := make([]map[string]any, 0, len(v.Comments))
	for _, cm := range v.Comments {
		comments = append(comments, map[string]any{
			"id":        cm.ID,
			"author":    cm.Author,
			"body":      cm.Body,
			"createdAt": toMillis(cm.CreatedAt),
		})
	}
	return map[string]any{
		"id":               v.ID,
		"nog":              v.Nog,
		"title":            v.Title,
		"description":      v.Description,
		"category":         v.Category,
		"categoryColor":    v.CategoryColor,
		"publicId":         v.PublicID,
		"url":              v.RemoteURL,
		"fileId":           v.RemoteFileID,
		"views":            v.Views,
		"likes":            v.Likes,
		"date":             v.Date,
		"duration":         v.Duration,
		"featured":         v.Featured,
		"borderColor":      v.BorderColor,
		"cardColor":        v.CardColor,
		"createdAt":        toMillis(v.CreatedAt),
		"updatedAt":        toMillis(v.UpdatedAt),
		"additionalVideos": additional,
		"comments":         comments,
	}
}

type videoBody struct {
	Nog           string  `json:"nog"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	CategoryColor *string `json:"categoryColor"`
	PublicID      *string `json:"publicId"`
	URL           *string `json:"url"`
	FileID        *string `json:"fileId"`
	Views         string  `json:"views"`
	Date          string  `json:"date"`
	Duration      string  `json:"duration"`
	Featured      bool    `json:"featured"`
	BorderColor   string  `json:"borderColor"`
	CardColor     string  `json:"cardColor"`
}

func (h *Handler) ListVideos(c echo.Context) error {
	videos, err := h.svc.ListVideos(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	out := make([]map[string]any, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoPayload(v))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"count":   len(out),
		"data":    out,
	})
}

func (h *Handler) GetVideo(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid video id")
	}
	v, err := h.svc.GetVideo(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": videoPayload(v)})
}

func (h *Handler) GetVideoByNog(c echo.Context) error {
	nog := strings.TrimSpace(c.Param("nog"))
	if nog == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nog is required")
	}
	v, err := h.svc.GetVideoByNog(c.Request().Context(), nog)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": videoPayload(v)})
}

func (h *Handler) CreateVideo(c echo.Context) error {
	var body videoBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v, err := h.svc.CreateVideo(c.Request().Context(), store.Video{
		Nog:           body.Nog,
		Title:         body.Title,
		Description:   body.Description,
		Category:      body.Category,
		CategoryColor: body.CategoryColor,
		PublicID:      body.PublicID,
		RemoteURL:     body.URL,
		RemoteFileID:  body.FileID,
		Views:         body.Views,
		Date:          body.Date,
		Duration:      body.Duration,
		Featured:      body.Featured,
		BorderColor:   body.BorderColor,
		CardColor:     body.CardColor,
	})
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": videoPayload(v)})
}

func (h *Handler) UpdateVideo(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid video id")
	}

	var patch struct {
		Nog           *string `json:"nog"`
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		Category      *string `json:"category"`
		CategoryColor *string `json:"categoryColor"`
		PublicID      *string `json:"publicId"`
		URL           *string `json:"url"`
		FileID        *string `json:"fileId"`
		Likes         *int64  `json:"likes"`
		BorderColor   *string `json:"borderColor"`
		CardColor     *string `json:"cardColor"`
	}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v, err := h.svc.UpdateVideo(c.Request().Context(), id, store.VideoPatch{
		Nog:           patch.Nog,
		Title:         patch.Title,
		Description:   patch.Description,
		Category:      patch.Category,
		CategoryColor: patch.CategoryColor,
		PublicID:      patch.PublicID,
		RemoteURL:     patch.URL,
		RemoteFileID:  patch.FileID,
		Likes:         patch.Likes,
		BorderColor:   patch.BorderColor,
		CardColor:     patch.CardColor,
	})
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": videoPayload(v)})
}

func (h *Handler) DeleteVideo(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid video id")
	}
	if err := h.svc.DeleteVideo(c.Request().Context(), id); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "video deleted"})
}

func (h *Handler) LikeVideo(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid video id")
	}
	likes, err := h.svc.LikeVideo(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "likes": likes})
}

func (h *Handler) AddAdditionalVideo(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid video id")
	}

	var body struct {
		Title     string  `json:"title"`
		PublicID  *string `json:"publicId"`
		URL       *string `json:"url"`
		FileID    *string `json:"fileId"`
		Thumbnail *string `json:"thumbnail"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v, err := h.svc.AddAdditionalVideo(c.Request().Context(), id, store.AdditionalVideo{
		Title:        body.Title,
		PublicID:     body.PublicID,
		RemoteURL:    body.URL,
		RemoteFileID: body.FileID,
		Thumbnail:    body.Thumbnail,
	})
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": videoPayload(v)})
}
