package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"videostudio/internal/sqlinline"
)

type stubExecutor struct {
	token      string
	customerID string
	err        error
	exec       struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return stubRow{token: s.token, customerID: s.customerID, err: s.err}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	token      string
	customerID string
	err        error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 2 {
		return errors.New("unexpected dest count")
	}
	tok, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	cus, ok := dest[1].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*tok = r.token
	*cus = r.customerID
	return nil
}

func TestVideoCredential(t *testing.T) {
	store := NewStore(&stubExecutor{token: " abc123 ", customerID: " cus_1 "})
	cred, err := store.VideoCredential(context.Background())
	if err != nil {
		t.Fatalf("VideoCredential error: %v", err)
	}
	if cred.Token != "abc123" {
		t.Fatalf("expected abc123, got %q", cred.Token)
	}
	if cred.CustomerID != "cus_1" {
		t.Fatalf("expected cus_1, got %q", cred.CustomerID)
	}
}

func TestVideoCredential_NoRows(t *testing.T) {
	store := NewStore(&stubExecutor{err: pgx.ErrNoRows})
	cred, err := store.VideoCredential(context.Background())
	if err != nil {
		t.Fatalf("VideoCredential error: %v", err)
	}
	if cred.Token != "" || cred.CustomerID != "" {
		t.Fatalf("expected empty credential, got %+v", cred)
	}
}

func TestVideoCredential_Error(t *testing.T) {
	store := NewStore(&stubExecutor{err: errors.New("conn refused")})
	if _, err := store.VideoCredential(context.Background()); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestSetVideoCredential(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	if err := store.SetVideoCredential(context.Background(), "secret", "cus_9"); err != nil {
		t.Fatalf("SetVideoCredential error: %v", err)
	}
	if exec.exec.query != sqlinline.QUpsertIntegrationToken {
		t.Fatalf("unexpected query: %s", exec.exec.query)
	}
	if len(exec.exec.args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(exec.exec.args))
	}
	if v, ok := exec.exec.args[0].(string); !ok || v != ProviderVideo {
		t.Fatalf("expected provider argument, got %T %v", exec.exec.args[0], exec.exec.args[0])
	}
	if v, ok := exec.exec.args[1].(string); !ok || v != "secret" {
		t.Fatalf("expected secret argument, got %T %v", exec.exec.args[1], exec.exec.args[1])
	}
	raw, ok := exec.exec.args[2].([]byte)
	if !ok {
		t.Fatalf("expected json properties, got %T", exec.exec.args[2])
	}
	var props map[string]string
	if err := json.Unmarshal(raw, &props); err != nil {
		t.Fatalf("decode properties: %v", err)
	}
	if props["customer_id"] != "cus_9" {
		t.Fatalf("customer_id = %q", props["customer_id"])
	}
}

func TestSetVideoCredentialEmpty(t *testing.T) {
	store := NewStore(&stubExecutor{})
	if err := store.SetVideoCredential(context.Background(), " ", ""); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestEnsureSchema(t *testing.T) {
	exec := &stubExecutor{}
	if err := NewStore(exec).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if exec.exec.query != sqlinline.QCreateIntegrationTokens {
		t.Fatalf("unexpected query: %s", exec.exec.query)
	}
}
