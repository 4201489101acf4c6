package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const videoColumns = `
	id, nog, title, description, category, category_color,
	public_id, remote_url, remote_file_id, views, likes,
	date, duration, featured, border_color, card_color,
	created_at, updated_at`

func scanVideo(row pgx.Row) (Video, error) {
	var v Video
	err := row.Scan(
		&v.ID, &v.Nog, &v.Title, &v.Description, &v.Category, &v.CategoryColor,
		&v.PublicID, &v.RemoteURL, &v.RemoteFileID, &v.Views, &v.Likes,
		&v.Date, &v.Duration, &v.Featured, &v.BorderColor, &v.CardColor,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Video{}, ErrNotFound
	}
	return v, err
}

// ListVideos returns every video, newest first, with additional videos and
// comments attached.
func (s *Store) ListVideos(ctx context.Context) ([]Video, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range videos {
		if err := s.attachRelations(ctx, &videos[i]); err != nil {
			return nil, err
		}
	}
	return videos, nil
}

func (s *Store) GetVideo(ctx context.Context, id uuid.UUID) (Video, error) {
	v, err := scanVideo(s.db.QueryRow(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE id = $1
	`, id))
	if err != nil {
		return Video{}, err
	}
	if err := s.attachRelations(ctx, &v); err != nil {
		return Video{}, err
	}
	return v, nil
}

// GetVideoByNog looks a video up by its catalog number; an unknown NOG falls
// back to an id lookup, matching how clients address videos interchangeably.
func (s *Store) GetVideoByNog(ctx context.Context, nog string) (Video, error) {
	v, err := scanVideo(s.db.QueryRow(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE nog = $1
	`, nog))
	if err == nil {
		if err := s.attachRelations(ctx, &v); err != nil {
			return Video{}, err
		}
		return v, nil
	}
	if !IsNotFound(err) {
		return Video{}, err
	}
	id, parseErr := uuid.Parse(nog)
	if parseErr != nil {
		return Video{}, ErrNotFound
	}
	return s.GetVideo(ctx, id)
}

func (s *Store) CreateVideo(ctx context.Context, v Video) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.Exec(ctx, `
		INSERT INTO videos (
			id, nog, title, description, category, category_color,
			public_id, remote_url, remote_file_id, views, likes,
			date, duration, featured, border_color, card_color
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		id, v.Nog, v.Title, v.Description, v.Category, v.CategoryColor,
		v.PublicID, v.RemoteURL, v.RemoteFileID, v.Views, v.Likes,
		v.Date, v.Duration, v.Featured, v.BorderColor, v.CardColor,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// UpdateVideo applies the non-nil fields of patch. A patch with nothing set
// is a no-op that still verifies the video exists.
func (s *Store) UpdateVideo(ctx context.Context, id uuid.UUID, patch VideoPatch) error {
	sets := make([]string, 0, 11)
	args := make([]any, 0, 12)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Nog != nil {
		add("nog", *patch.Nog)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.CategoryColor != nil {
		add("category_color", *patch.CategoryColor)
	}
	if patch.PublicID != nil {
		add("public_id", *patch.PublicID)
	}
	if patch.RemoteURL != nil {
		add("remote_url", *patch.RemoteURL)
	}
	if patch.RemoteFileID != nil {
		add("remote_file_id", *patch.RemoteFileID)
	}
	if patch.Likes != nil {
		add("likes", *patch.Likes)
	}
	if patch.BorderColor != nil {
		add("border_color", *patch.BorderColor)
	}
	if patch.CardColor != nil {
		add("card_color", *patch.CardColor)
	}

	if len(sets) == 0 {
		var exists bool
		err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return nil
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	tag, err := s.db.Exec(ctx,
		fmt.Sprintf("UPDATE videos SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)),
		args...,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementLikes bumps the like counter and returns the new value.
func (s *Store) IncrementLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	var likes int64
	err := s.db.QueryRow(ctx, `
		UPDATE videos SET likes = likes + 1 WHERE id = $1
		RETURNING likes
	`, id).Scan(&likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return likes, err
}

func (s *Store) AddAdditionalVideo(ctx context.Context, av AdditionalVideo) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.Exec(ctx, `
		INSERT INTO additional_videos (id, video_id, title, public_id, remote_url, remote_file_id, thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, av.VideoID, av.Title, av.PublicID, av.RemoteURL, av.RemoteFileID, av.Thumbnail)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *Store) attachRelations(ctx context.Context, v *Video) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, video_id, title, public_id, remote_url, remote_file_id, thumbnail, created_at
		FROM additional_videos
		WHERE video_id = $1
		ORDER BY created_at
	`, v.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	v.AdditionalVideos = []AdditionalVideo{}
	for rows.Next() {
		var av AdditionalVideo
		if err := rows.Scan(&av.ID, &av.VideoID, &av.Title, &av.PublicID, &av.RemoteURL, &av.RemoteFileID, &av.Thumbnail, &av.CreatedAt); err != nil {
			return err
		}
		v.AdditionalVideos = append(v.AdditionalVideos, av)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	commentRows, err := s.db.Query(ctx, `
		SELECT id, video_id, author, body, created_at
		FROM comments
		WHERE video_id = $1
		ORDER BY created_at DESC
	`, v.ID)
	if err != nil {
		return err
	}
	defer commentRows.Close()
	v.Comments = []Comment{}
	for commentRows.Next() {
		var c Comment
		if err := commentRows.Scan(&c.ID, &c.VideoID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return err
		}
		v.Comments = append(v.Comments, c)
	}
	return commentRows.Err()
}
