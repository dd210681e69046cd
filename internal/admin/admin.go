package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playpool/billiards/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var logger = log.WithPrefix("admin")

var (
	ErrAccountNotFound = errors.New("admin account not found")
	ErrInvalidToken    = errors.New("invalid admin token")
)

// GetAdminAccount retrieves an admin account by name
func GetAdminAccount(ctx context.Context, db *sqlx.DB, name string) (*models.AdminAccount, error) {
	var acc models.AdminAccount
	err := db.GetContext(ctx, &acc, db.Rebind(
		`SELECT name, display_name, token_hash, roles, created_at, updated_at FROM admin_accounts WHERE name = ?`), name)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// HashAdminToken bcrypt-hashes a plain token
func HashAdminToken(plainToken string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}

// VerifyAdminToken checks if the provided token matches the stored hash
func VerifyAdminToken(hashedToken, plainToken string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken)) == nil
}

// CreateAdminAccount creates or replaces an admin account
func CreateAdminAccount(ctx context.Context, db *sqlx.DB, name, displayName, plainToken string, roles []string) error {
	hashed, err := HashAdminToken(plainToken)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []string{}
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx, db.Rebind(`
		INSERT INTO admin_accounts (name, display_name, token_hash, roles, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			token_hash = EXCLUDED.token_hash,
			roles = EXCLUDED.roles,
			updated_at = EXCLUDED.updated_at
	`), name, displayName, hashed, pq.Array(roles), now, now)
	return err
}

// ValidateAdminNameAndToken validates a name + token combination
func ValidateAdminNameAndToken(ctx context.Context, db *sqlx.DB, name, token string) (*models.AdminAccount, error) {
	acc, err := GetAdminAccount(ctx, db, name)
	if errors.Is(err, sql.ErrNoRows) {
		logger.Warn("no admin account", "name", name)
		return nil, ErrAccountNotFound
	}
	if err != nil {
		logger.Error("admin lookup failed", "name", name, "err", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !VerifyAdminToken(acc.TokenHash, token) {
		logger.Warn("admin token verification failed", "name", name)
		return nil, ErrInvalidToken
	}
	return acc, nil
}

// LogAdminAction records an admin action in the audit log
func LogAdminAction(ctx context.Context, db *sqlx.DB, adminName, ip, route, action string, details map[string]interface{}, success bool) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		logger.Warn("failed to marshal audit details", "err", err)
		detailsJSON = []byte("{}")
	}

	_, err = db.ExecContext(ctx, db.Rebind(`
		INSERT INTO admin_audit (admin_name, ip, route, action, details, success, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), adminName, ip, route, action, string(detailsJSON), success, time.Now().UTC())
	if err != nil {
		logger.Error("failed to log admin action", "action", action, "err", err)
	}
	return err
}

// GetAdminAuditLogs retrieves recent admin audit logs with pagination
func GetAdminAuditLogs(ctx context.Context, db *sqlx.DB, limit, offset int) ([]models.AdminAudit, error) {
	logs := []models.AdminAudit{}
	err := db.SelectContext(ctx, &logs, db.Rebind(`
		SELECT id, admin_name, ip, route, action, details, success, created_at
		FROM admin_audit
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`), limit, offset)
	return logs, err
}
