package service

import (
	"context"
	"fmt"
	"strings"

	"vidvault/internal/auth"
	"vidvault/internal/store"
)

// Login checks credentials (username or email) and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, store.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", store.User{}, fmt.Errorf("%w: credentials required", ErrInvalidInput)
	}

	user, err := s.store.FindUserByUsername(ctx, username)
	if store.IsNotFound(err) {
		user, err = s.store.FindUserByEmail(ctx, username)
	}
	if store.IsNotFound(err) {
		return "", store.User{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return "", store.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", store.User{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", store.User{}, err
	}
	return token, user, nil
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, email, username, password string) (string, store.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return "", store.User{}, fmt.Errorf("%w: email, username and password required", ErrInvalidInput)
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return "", store.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !store.IsNotFound(err) {
		return "", store.User{}, err
	}
	if _, err := s.store.FindUserByUsername(ctx, username); err == nil {
		return "", store.User{}, fmt.Errorf("%w: username already registered", ErrConflict)
	} else if !store.IsNotFound(err) {
		return "", store.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", store.User{}, err
	}
	id, err := s.store.CreateUser(ctx, store.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         "user",
	})
	if err != nil {
		return "", store.User{}, err
	}
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		return "", store.User{}, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", store.User{}, err
	}
	return token, user, nil
}

// UserForClaims loads the account behind verified token claims.
func (s *Service) UserForClaims(ctx context.Context, claims auth.Claims) (store.User, error) {
	user, err := s.store.FindUserByID(ctx, claims.UserID)
	if store.IsNotFound(err) {
		return store.User{}, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	return user, err
}
