package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/restaurante/internal/database"
	"github.com/iliyamo/restaurante/internal/model"
	"github.com/iliyamo/restaurante/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user, returning its ID.
func (r *UserRepo) Create(ctx context.Context, username, password string, cost int) (int64, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id, err := insertID(ctx, r.DB,
		"INSERT INTO Usuarios (username, password) VALUES (?, ?)",
		username, hash)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	return id, nil
}

// GetByUsername fetches a user for login.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id_usuario, username, password FROM Usuarios WHERE username = ? LIMIT 1",
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.PasswordHash)
	return u, notFound(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id_usuario, username, password FROM Usuarios WHERE id_usuario = ? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.PasswordHash)
	return u, notFound(err)
}
