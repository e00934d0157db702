package model

import "time"

// Emoji mirrors the `emojis` table.  A row is created the first time an
// explanation is requested for a symbol and is immutable afterwards.
type Emoji struct {
	ID     uint64 // emojis.id
	Symbol string // emojis.symbol (unique, a single grapheme cluster)
}

// Explanation mirrors the `explanations` table.  At most one row exists
// per emoji (UNIQUE on emoji_id); the first stored answer wins for the
// lifetime of the record.
type Explanation struct {
	ID        uint64    // explanations.id
	EmojiID   uint64    // explanations.emoji_id
	Content   string    // explanations.content
	UpdatedBy uint64    // explanations.updated_by (system author id)
	CreatedAt time.Time // explanations.created_at
}
