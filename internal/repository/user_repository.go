package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portfolio-api/internal/domain"
)

// UserRepository defines persistence access for identities. Reads exclude
// the password hash unless the method name says otherwise.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetStatus(ctx context.Context, id string, status domain.UserStatus) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error)
	GetByIDWithPassword(ctx context.Context, id string) (*domain.User, error)
	GetByOAuthID(ctx context.Context, provider, externalID string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (full_name, email, password_hash, oauth_ids, roles, avatar, status)
        VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	oauthIDs, err := marshalOAuthIDs(user.OAuthIDs)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.PasswordHash,
		oauthIDs,
		domain.RoleStrings(user.Roles),
		user.Avatar,
		user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET full_name=$1, email=NULLIF($2, ''), oauth_ids=$3, roles=$4, avatar=$5, status=$6, updated_at=NOW()
        WHERE id=$7`

	oauthIDs, err := marshalOAuthIDs(user.OAuthIDs)
	if err != nil {
		return err
	}

	cmd, err := r.pool.Exec(ctx, query,
		user.FullName,
		user.Email,
		oauthIDs,
		domain.RoleStrings(user.Roles),
		user.Avatar,
		user.Status,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	const query = `UPDATE users SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const userColumns = `id, full_name, COALESCE(email, ''), oauth_ids, roles, avatar, status, created_at, updated_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id), false)
}

func (r *userRepository) GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE email=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email), true)
}

func (r *userRepository) GetByIDWithPassword(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE id=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id), true)
}

func (r *userRepository) GetByOAuthID(ctx context.Context, provider, externalID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE oauth_ids->>$1 = $2`
	return r.scanUser(r.pool.QueryRow(ctx, query, provider, externalID), false)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	const countQuery = `SELECT COUNT(*) FROM users`

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		user, err := scanUserRow(rows, false)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *userRepository) scanUser(row pgx.Row, withPassword bool) (*domain.User, error) {
	return scanUserRow(row, withPassword)
}

func scanUserRow(row pgx.Row, withPassword bool) (*domain.User, error) {
	var (
		user     domain.User
		oauthRaw []byte
		roles    []string
	)

	dest := []any{
		&user.ID,
		&user.FullName,
		&user.Email,
		&oauthRaw,
		&roles,
		&user.Avatar,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
	if withPassword {
		dest = append(dest, &user.PasswordHash)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	user.Roles = domain.RolesFromStrings(roles)
	user.OAuthIDs = map[string]string{}
	if len(oauthRaw) > 0 {
		if err := json.Unmarshal(oauthRaw, &user.OAuthIDs); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func marshalOAuthIDs(ids map[string]string) ([]byte, error) {
	if ids == nil {
		ids = map[string]string{}
	}
	return json.Marshal(ids)
}
