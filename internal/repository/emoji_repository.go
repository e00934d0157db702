package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/emoji-explainer/internal/model"
)

// EmojiRepo stores emoji symbols and their cached explanations.
type EmojiRepo struct{ DB *sql.DB }

func NewEmojiRepo(db *sql.DB) *EmojiRepo { return &EmojiRepo{DB: db} }

// GetExplanationBySymbol returns the stored explanation content for a
// symbol.  sql.ErrNoRows means either the emoji has never been seen or no
// explanation has been stored yet; both cases send the caller to the
// provider.
func (r *EmojiRepo) GetExplanationBySymbol(ctx context.Context, symbol string) (string, error) {
	var content string
	err := r.DB.QueryRowContext(ctx,
		"SELECT x.content FROM emojis e JOIN explanations x ON x.emoji_id=e.id WHERE e.symbol=? LIMIT 1",
		symbol).Scan(&content)
	return content, err
}

// FindBySymbol fetches an emoji row by its symbol.
func (r *EmojiRepo) FindBySymbol(ctx context.Context, symbol string) (model.Emoji, error) {
	var e model.Emoji
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,symbol FROM emojis WHERE symbol=? LIMIT 1",
		symbol).Scan(&e.ID, &e.Symbol)
	return e, err
}

// CreateEmoji inserts an emoji row and returns its ID.  On a duplicate
// symbol (another writer inserted first) the existing row's id is returned
// instead of an error.
func (r *EmojiRepo) CreateEmoji(ctx context.Context, symbol string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO emojis (symbol) VALUES (?)", symbol)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			e, gerr := r.FindBySymbol(ctx, symbol)
			if gerr != nil {
				return 0, gerr
			}
			return e.ID, nil
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateExplanation inserts the explanation for an emoji, attributed to the
// given author id.  The unique index on emoji_id turns a concurrent double
// insert into ErrExplanationExists.
func (r *EmojiRepo) CreateExplanation(ctx context.Context, emojiID uint64, content string, updatedBy uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO explanations (emoji_id, content, updated_by) VALUES (?,?,?)",
		emojiID, content, updatedBy)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrExplanationExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SymbolByExplanationID resolves the emoji symbol owning an explanation
// row.  Callers invalidating caches need the symbol, not the row id.
func (r *EmojiRepo) SymbolByExplanationID(ctx context.Context, id uint64) (string, error) {
	var symbol string
	err := r.DB.QueryRowContext(ctx,
		"SELECT e.symbol FROM explanations x JOIN emojis e ON e.id=x.emoji_id WHERE x.id=? LIMIT 1",
		id).Scan(&symbol)
	return symbol, err
}

// DeleteExplanation removes an explanation row by id.  It reports whether a
// row was actually deleted so handlers can answer 404 for unknown ids.
// Deleting an explanation reopens the provider path for that emoji.
func (r *EmojiRepo) DeleteExplanation(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM explanations WHERE id=?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
