package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

// Video is one catalog entry. RemoteURL/RemoteFileID form the optional
// remote reference the streaming proxy resolves; a video holds at most one
// primary reference, plus one per additional video.
type Video struct {
	ID            uuid.UUID
	Nog           string
	Title         string
	Description   *string
	Category      *string
	CategoryColor *string
	PublicID      *string
	RemoteURL     *string
	RemoteFileID  *string
	Views         string
	Likes         int64
	Date          string
	Duration      string
	Featured      bool
	BorderColor   string
	CardColor     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	AdditionalVideos []AdditionalVideo
	Comments         []Comment
}

// AdditionalVideo owns its own remote reference; refs are never shared
// between entries.
type AdditionalVideo struct {
	ID           uuid.UUID
	VideoID      uuid.UUID
	Title        string
	PublicID     *string
	RemoteURL    *string
	RemoteFileID *string
	Thumbnail    *string
	CreatedAt    time.Time
}

type Comment struct {
	ID        uuid.UUID
	VideoID   uuid.UUID
	Author    string
	Body      string
	CreatedAt time.Time
}

type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// VideoPatch is a typed partial update: nil fields are left untouched.
type VideoPatch struct {
	Nog           *string
	Title         *string
	Description   *string
	Category      *string
	CategoryColor *string
	PublicID      *string
	RemoteURL     *string
	RemoteFileID  *string
	Likes         *int64
	BorderColor   *string
	CardColor     *string
}

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}
