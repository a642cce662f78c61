package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

// CredentialRepo defines the persistence operations for Live Ops access
// credentials. Superusers never have rows here — the permission check lets
// them through before touching the table.
type CredentialRepo interface {
	// HasEnabled reports whether the user holds an enabled credential.
	HasEnabled(ctx context.Context, userID uuid.UUID) (bool, error)

	// Upsert grants or re-enables the user's credential.
	Upsert(ctx context.Context, userID uuid.UUID, grantedBy *uuid.UUID) (domain.Credential, error)

	// Disable revokes the credential. The row is kept (disabled) so the
	// grant timestamp survives re-grants. Returns domain.ErrNotFound if the
	// user never had one.
	Disable(ctx context.Context, userID uuid.UUID) (domain.Credential, error)
}

// pgCredentialRepo is the Postgres implementation of CredentialRepo.
type pgCredentialRepo struct {
	db db
}

// NewCredentialRepo constructs a CredentialRepo backed by the provided db connection.
func NewCredentialRepo(db db) CredentialRepo {
	return &pgCredentialRepo{db: db}
}

// HasEnabled checks for an enabled credential row.
func (r *pgCredentialRepo) HasEnabled(ctx context.Context, userID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM ops_credentials WHERE user_id = @user_id AND enabled)`

	var ok bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}).Scan(&ok); err != nil {
		return false, fmt.Errorf("repo.CredentialRepo.HasEnabled: %w", err)
	}
	return ok, nil
}

// Upsert inserts or re-enables the credential.
func (r *pgCredentialRepo) Upsert(ctx context.Context, userID uuid.UUID, grantedBy *uuid.UUID) (domain.Credential, error) {
	const q = `
		INSERT INTO ops_credentials (user_id, enabled, granted_by)
		VALUES (@user_id, true, @granted_by)
		ON CONFLICT (user_id) DO UPDATE SET enabled = true, granted_by = EXCLUDED.granted_by
		RETURNING user_id, enabled, granted_at, granted_by`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "granted_by": grantedBy})
	result, err := scanCredential(row)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Upsert: %w", err)
	}
	return result, nil
}

// Disable revokes an existing credential.
func (r *pgCredentialRepo) Disable(ctx context.Context, userID uuid.UUID) (domain.Credential, error) {
	const q = `
		UPDATE ops_credentials
		SET enabled = false
		WHERE user_id = @user_id
		RETURNING user_id, enabled, granted_at, granted_by`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID})
	result, err := scanCredential(row)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("repo.CredentialRepo.Disable: %w", err)
	}
	return result, nil
}

// scanCredential maps a single credential row.
func scanCredential(s scanner) (domain.Credential, error) {
	var (
		c   domain.Credential
		uid pgtype.UUID
		by  pgtype.UUID
	)

	err := s.Scan(&uid, &c.Enabled, &c.GrantedAt, &by)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Credential{}, domain.ErrNotFound
		}
		return domain.Credential{}, err
	}

	c.UserID = uuid.UUID(uid.Bytes)
	if by.Valid {
		u := uuid.UUID(by.Bytes)
		c.GrantedBy = &u
	}
	return c, nil
}
