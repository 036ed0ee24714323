package repositories

import (
	"context"
	"database/sql"

	"cleanlyBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

// IsAdmin reports whether the user holds the admin role.
func (r *UserRepository) IsAdmin(ctx context.Context, userID int) (bool, error) {
	var role string
	err := r.DB.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ?`, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return false, models.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// DeviceTokens returns all registered push tokens for the user.
func (r *UserRepository) DeviceTokens(ctx context.Context, userID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT token FROM device_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// SaveDeviceToken registers a push token, replacing a stale owner if the
// device changed hands.
func (r *UserRepository) SaveDeviceToken(ctx context.Context, userID int, token string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO device_tokens (user_id, token, created_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE user_id = VALUES(user_id)
	`, userID, token)
	return err
}
