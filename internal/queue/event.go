// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// ExplanationCreatedEvent is published when a freshly fetched explanation is
// persisted for an emoji seen for the first time.  It contains enough
// information for downstream consumers to log or trigger analytics without
// querying the primary database.
type ExplanationCreatedEvent struct {
	EmojiID   uint64 `json:"emoji_id"`
	Symbol    string `json:"symbol"`
	Content   string `json:"content"`
	UpdatedBy uint64 `json:"updated_by"`
	CreatedAt string `json:"created_at"`
}
