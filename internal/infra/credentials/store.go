package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"videostudio/internal/infra"
	"videostudio/internal/sqlinline"
)

const (
	ProviderVideo = "video"
)

// Credential is an upstream token with the account it belongs to.
type Credential struct {
	Token      string
	CustomerID string
}

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// EnsureSchema creates the integration_tokens table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.sql.Exec(ctx, sqlinline.QCreateIntegrationTokens)
	return err
}

func (s *Store) VideoCredential(ctx context.Context) (Credential, error) {
	return s.Lookup(ctx, ProviderVideo)
}

// Lookup returns the stored credential for provider. A missing row yields a
// zero Credential and no error.
func (s *Store) Lookup(ctx context.Context, provider string) (Credential, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var cred Credential
	if err := row.Scan(&cred.Token, &cred.CustomerID); err != nil {
		if infra.IsNoRows(err) {
			return Credential{}, nil
		}
		return Credential{}, err
	}
	cred.Token = strings.TrimSpace(cred.Token)
	cred.CustomerID = strings.TrimSpace(cred.CustomerID)
	return cred, nil
}

func (s *Store) SetVideoCredential(ctx context.Context, key, customerID string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("video api key is required")
	}
	var props map[string]any
	if customerID = strings.TrimSpace(customerID); customerID != "" {
		props = map[string]any{"customer_id": customerID}
	}
	return s.upsert(ctx, ProviderVideo, key, props)
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
