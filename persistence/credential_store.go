package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"

	"golang.org/x/oauth2"
)

// Providers known to the credential store.
const (
	ProviderSalesforce = "salesforce"
	ProviderGoogle     = "google"
)

// ErrNoCredentials is returned when a user has not connected a provider.
var ErrNoCredentials = errors.New("no stored credentials")

// CredentialStore persists OAuth tokens per user and provider.
type CredentialStore interface {
	SaveToken(ctx context.Context, userID, provider string, token *oauth2.Token) error
	Token(ctx context.Context, userID, provider string) (*oauth2.Token, error)
	HasToken(ctx context.Context, userID, provider string) (bool, error)
}

// storedToken keeps the instance URL Salesforce returns alongside the
// standard token fields.
type storedToken struct {
	*oauth2.Token
	InstanceURL string `json:"instance_url,omitempty"`
}

// SaveToken upserts a token.
func (s *SQLiteStore) SaveToken(ctx context.Context, userID, provider string, token *oauth2.Token) error {
	if userID == "" || provider == "" {
		return errors.New("user id and provider required")
	}
	wrapped := storedToken{Token: token}
	if raw, ok := token.Extra("instance_url").(string); ok {
		wrapped.InstanceURL = raw
	}
	payload, err := json.Marshal(wrapped)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO credentials (user_id, provider, token, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (user_id, provider) DO UPDATE SET token = excluded.token, updated_at = CURRENT_TIMESTAMP`,
		userID, provider, string(payload))
	return err
}

// Token returns the stored token, or ErrNoCredentials.
func (s *SQLiteStore) Token(ctx context.Context, userID, provider string) (*oauth2.Token, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM credentials WHERE user_id = ? AND provider = ?`, userID, provider).
		Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, err
	}
	var wrapped storedToken
	if err := json.Unmarshal([]byte(payload), &wrapped); err != nil {
		return nil, err
	}
	token := wrapped.Token
	if wrapped.InstanceURL != "" {
		token = token.WithExtra(map[string]interface{}{"instance_url": wrapped.InstanceURL})
	}
	return token, nil
}

// HasToken reports whether the user has connected the provider.
func (s *SQLiteStore) HasToken(ctx context.Context, userID, provider string) (bool, error) {
	_, err := s.Token(ctx, userID, provider)
	if errors.Is(err, ErrNoCredentials) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PersistingTokenSource refreshes through the wrapped source and writes
// refreshed tokens back to the store so restarts keep working sessions.
type PersistingTokenSource struct {
	Store    CredentialStore
	UserID   string
	Provider string
	Source   oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

// Token returns a valid token, persisting it when it changes.
func (p *PersistingTokenSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	token, err := p.Source.Token()
	if err != nil {
		return nil, err
	}
	if p.last == nil || p.last.AccessToken != token.AccessToken {
		if err := p.Store.SaveToken(context.Background(), p.UserID, p.Provider, token); err != nil {
			return nil, err
		}
		p.last = token
	}
	return token, nil
}
