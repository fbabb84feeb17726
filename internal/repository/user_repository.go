package repository

import (
	"context"
	"database/sql"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, username, email, on_diet FROM users WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.Email, &user.OnDiet)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT id, username, email, on_diet FROM users`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user := &entity.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.OnDiet); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (username, email) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	user.ID = int(id)
	return user, nil
}

// MarkOnDiet flips the durable on_diet flag to true. The conditional write
// keeps the flag monotonic and makes repeated evaluation a no-op.
func (r *UserRepository) MarkOnDiet(ctx context.Context, id int) error {
	query := `UPDATE users SET on_diet = TRUE WHERE id = ? AND on_diet = FALSE`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// SetOnDiet overwrites the flag unconditionally. Administrative override; the
// only path allowed to unset it.
func (r *UserRepository) SetOnDiet(ctx context.Context, id int, onDiet bool) error {
	query := `UPDATE users SET on_diet = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, onDiet, id)
	return err
}
