package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
)

const sessionColumns = `
	id, super_admin_id, viewing_account_id, viewing_user_id,
	session_token, expires_at, is_active, created_at, updated_at
`

type viewAsSessionRepository struct {
	BaseRepository
}

func NewViewAsSessionRepository(base BaseRepository) repository.ViewAsSessionRepository {
	return &viewAsSessionRepository{base}
}

func (r *viewAsSessionRepository) Create(ctx context.Context, session *model.ViewAsSession) error {
	query := `
		INSERT INTO view_as_sessions (
			id, super_admin_id, viewing_account_id, viewing_user_id,
			session_token, expires_at, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now()
	session.ID = uuid.New()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.SuperAdminID,
		session.ViewingAccountID,
		session.ViewingUserID,
		session.SessionToken,
		session.ExpiresAt,
		session.IsActive,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create view-as session: %w", err)
	}
	return nil
}

// GetByToken returns the session regardless of activity or expiry;
// callers decide how a stale record is treated (revoke needs the
// inactive row, resolve treats it as "no session").
func (r *viewAsSessionRepository) GetByToken(ctx context.Context, token string) (*model.ViewAsSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM view_as_sessions WHERE session_token = $1`

	var session model.ViewAsSession
	err := r.db.GetContext(ctx, &session, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get view-as session: %w", err)
	}
	return &session, nil
}

func (r *viewAsSessionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE view_as_sessions
		SET is_active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate view-as session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
