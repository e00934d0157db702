package database

import (
	"context"
	"database/sql"
)

// Schema statements executed at startup.  CREATE TABLE IF NOT EXISTS keeps
// boot idempotent without a separate migration tool.  The UNIQUE KEY on
// explanations.emoji_id is load-bearing: together with the per-symbol
// serialization in the explanation service it guarantees at most one
// explanation per emoji even across process instances.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(64)     NOT NULL,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(100)    NOT NULL,
		role          ENUM('ADMIN','USER','SERVICE_MANAGER') NOT NULL DEFAULT 'USER',
		created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_sessions_token_hash (token_hash),
		KEY idx_sessions_user (user_id),
		CONSTRAINT fk_sessions_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS emojis (
		id     BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		symbol VARCHAR(32)     NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_emojis_symbol (symbol)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS explanations (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		emoji_id   BIGINT UNSIGNED NOT NULL,
		content    TEXT            NOT NULL,
		updated_by BIGINT UNSIGNED NOT NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_explanations_emoji (emoji_id),
		CONSTRAINT fk_explanations_emoji FOREIGN KEY (emoji_id) REFERENCES emojis (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the application tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
