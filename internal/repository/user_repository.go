package repository

import (
	"database/sql"
	"fmt"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ListUsers returns all users, oldest first. An empty table yields an
// empty slice, not an error: a run over zero users is a successful no-op.
func (r *UserRepository) ListUsers() ([]model.User, error) {
	rows, err := r.db.Query(`SELECT id, name, created_at FROM user ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query user table: %w", err)
	}
	defer rows.Close()

	users := []model.User{}

	for rows.Next() {
		var u model.User
		var createdAtStr string

		if err := rows.Scan(&u.ID, &u.Name, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan user table results: %w", err)
		}

		u.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user table: %w", err)
	}

	return users, nil
}

// CreateUser inserts a new user.
func (r *UserRepository) CreateUser(user model.User) error {
	_, err := r.db.Exec(`INSERT INTO user (id, name) VALUES (?, ?)`, user.ID, user.Name)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}
