package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidvault/internal/store"
)

const (
	defaultViews       = "0"
	defaultDate        = "just now"
	defaultBorderColor = "border-red-400"
	defaultCardColor   = "bg-gradient-to-br from-red-500 to-red-600"
)

func (s *Service) ListVideos(ctx context.Context) ([]store.Video, error) {
	return s.store.ListVideos(ctx)
}

func (s *Service) GetVideo(ctx context.Context, id uuid.UUID) (store.Video, error) {
	v, err := s.store.GetVideo(ctx, id)
	if store.IsNotFound(err) {
		return store.Video{}, ErrNotFound
	}
	return v, err
}

func (s *Service) GetVideoByNog(ctx context.Context, nog string) (store.Video, error) {
	v, err := s.store.GetVideoByNog(ctx, strings.TrimSpace(nog))
	if store.IsNotFound(err) {
		return store.Video{}, ErrNotFound
	}
	return v, err
}

// CreateVideo fills catalog defaults, assigns a NOG when none was given, and
// persists the record.
func (s *Service) CreateVideo(ctx context.Context, v store.Video) (store.Video, error) {
	if strings.TrimSpace(v.Title) == "" && strings.TrimSpace(v.Nog) == "" {
		return store.Video{}, fmt.Errorf("%w: title or nog required", ErrInvalidInput)
	}
	if v.Nog == "" {
		v.Nog = GenerateNog()
	}
	if v.Views == "" {
		v.Views = defaultViews
	}
	if v.Date == "" {
		v.Date = defaultDate
	}
	if v.BorderColor == "" {
		v.BorderColor = defaultBorderColor
	}
	if v.CardColor == "" {
		v.CardColor = defaultCardColor
	}

	id, err := s.store.CreateVideo(ctx, v)
	if err != nil {
		return store.Video{}, err
	}
	return s.GetVideo(ctx, id)
}

func (s *Service) UpdateVideo(ctx context.Context, id uuid.UUID, patch store.VideoPatch) (store.Video, error) {
	if err := s.store.UpdateVideo(ctx, id, patch); err != nil {
		if store.IsNotFound(err) {
			return store.Video{}, ErrNotFound
		}
		return store.Video{}, err
	}
	return s.GetVideo(ctx, id)
}

func (s *Service) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	err := s.store.DeleteVideo(ctx, id)
	if store.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (s *Service) LikeVideo(ctx context.Context, id uuid.UUID) (int64, error) {
	likes, err := s.store.IncrementLikes(ctx, id)
	if store.IsNotFound(err) {
		return 0, ErrNotFound
	}
	return likes, err
}

// AddAdditionalVideo attaches a secondary clip, with its own remote
// reference, to an existing video.
func (s *Service) AddAdditionalVideo(ctx context.Context, videoID uuid.UUID, av store.AdditionalVideo) (store.Video, error) {
	if _, err := s.GetVideo(ctx, videoID); err != nil {
		return store.Video{}, err
	}
	av.VideoID = videoID
	if _, err := s.store.AddAdditionalVideo(ctx, av); err != nil {
		return store.Video{}, err
	}
	return s.GetVideo(ctx, videoID)
}

// GenerateNog builds an 8-digit catalog number from the clock tail plus a
// random suffix.
func GenerateNog() string {
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	random := fmt.Sprintf("%04d", rand.Intn(10000))
	nog := timestamp[len(timestamp)-4:] + random
	return nog[:8]
}
