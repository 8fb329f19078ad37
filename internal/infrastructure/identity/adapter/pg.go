package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/identity/port"
)

// PgIdentityProvider resolves identities against the marketplace user table.
type PgIdentityProvider struct {
	pool *pgxpool.Pool
}

func NewPgIdentityProvider(pool *pgxpool.Pool) *PgIdentityProvider {
	return &PgIdentityProvider{pool: pool}
}

var _ port.Provider = (*PgIdentityProvider)(nil)

func (r *PgIdentityProvider) Authenticate(ctx context.Context, token string) (port.User, error) {
	if r == nil || r.pool == nil {
		return port.User{}, errors.New("PgIdentityProvider: nil pool")
	}
	if token == "" {
		return port.User{}, port.ErrUnauthenticated
	}
	var u port.User
	err := r.pool.QueryRow(ctx, `
		SELECT u.id::text, u.full_name
		FROM chat.app_user u
		JOIN chat.access_token t ON t.user_id = u.id
		WHERE t.token = $1 AND (t.expires_at IS NULL OR t.expires_at > now())
	`, token).Scan(&u.ID, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.User{}, port.ErrUnauthenticated
	}
	if err != nil {
		return port.User{}, err
	}
	return u, nil
}

func (r *PgIdentityProvider) Lookup(ctx context.Context, userID string) (port.User, error) {
	if r == nil || r.pool == nil {
		return port.User{}, errors.New("PgIdentityProvider: nil pool")
	}
	var u port.User
	err := r.pool.QueryRow(ctx,
		"SELECT id::text, full_name FROM chat.app_user WHERE id = $1::uuid",
		userID,
	).Scan(&u.ID, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return port.User{}, port.ErrUnknownUser
	}
	if err != nil {
		return port.User{}, err
	}
	return u, nil
}
