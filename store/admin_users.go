package store

import (
	"database/sql"
	"errors"
)

// AdminUser is a back-office login.
type AdminUser struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    string
}

// GetAdminUser fetches an admin user by username.
func (db *DB) GetAdminUser(username string) (*AdminUser, error) {
	var u AdminUser
	err := db.QueryRow(`SELECT id, username, password_hash, created_at FROM admin_users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureAdminUser creates the admin account if it doesn't exist yet. An
// existing account is left untouched so a changed password survives restarts.
func (db *DB) EnsureAdminUser(username, passwordHash string) error {
	_, err := db.Exec(`INSERT INTO admin_users (username, password_hash) VALUES (?, ?)
		ON CONFLICT(username) DO NOTHING`, username, passwordHash)
	return err
}

// UpdateAdminPassword replaces the stored password hash.
func (db *DB) UpdateAdminPassword(username, passwordHash string) error {
	res, err := db.Exec(`UPDATE admin_users SET password_hash = ? WHERE username = ?`,
		passwordHash, username)
	if err != nil {
		return err
	}
	return requireRow(res)
}
