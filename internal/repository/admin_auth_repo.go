package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}

type AdminAuthRepository interface {
	GetByEmail(email string) (*Admin, error)
	CreateAdmin(email, password string) error
}

type adminAuthRepository struct {
	db *sql.DB
}

func NewAdminAuthRepository(db *sql.DB) AdminAuthRepository {
	return &adminAuthRepository{db: db}
}

func (r *adminAuthRepository) GetByEmail(email string) (*Admin, error) {
	var admin Admin
	err := r.db.QueryRow(`SELECT id, email, password_hash FROM admins WHERE email = $1`, email).
		Scan(&admin.ID, &admin.Email, &admin.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying admin: %w", err)
	}
	return &admin, nil
}

func (r *adminAuthRepository) CreateAdmin(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if _, err := r.db.Exec(`INSERT INTO admins (email, password_hash) VALUES ($1, $2)`, email, string(hash)); err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}
	return nil
}
