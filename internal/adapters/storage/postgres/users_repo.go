package postgres

import (
	"context"
	"database/sql"
	"errors"

	"adopthub/internal/domain/users"
	"adopthub/internal/ports/auth"

	"github.com/jackc/pgx/v5/pgconn"
)

// unique_violation
const pgUniqueViolation = "23505"

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Insert(ctx context.Context, u users.User) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.CreatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, users.ErrEmailTaken
		}
		return 0, err
	}
	return id, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`, email)

	var u users.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, ErrNotFound
		}
		return users.User{}, err
	}
	u.Role = auth.ParseRole(role)
	return u, nil
}
