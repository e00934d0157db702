// Package service holds the application logic that sits between handlers
// and the repositories: the read-through explanation cache and the server
// resource bookkeeping.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/emoji-explainer/internal/queue"
	"github.com/iliyamo/emoji-explainer/internal/repository"
)

// systemAuthorID attributes provider-fetched explanations to a fixed
// system author.
const systemAuthorID uint64 = 1

// redisTTL bounds the look-aside entries; MySQL stays the source of truth
// and explanations there never expire.
const redisTTL = 24 * time.Hour

// ExplanationProvider is the remote source consulted on a cache miss.
type ExplanationProvider interface {
	Explain(ctx context.Context, emoji string) (string, error)
}

// ExplanationCache is the subset of redis commands the explainer uses.
// *redis.Client satisfies it; tests substitute an in-memory fake.
type ExplanationCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Explainer implements the read-through explanation cache: check MySQL
// first, fall back to the provider, persist the result for future lookups.
// Concurrent first-requests for the same symbol are collapsed through a
// singleflight group, and the unique index on explanations.emoji_id covers
// writers in other processes, so at most one explanation row can ever exist
// per emoji.
type Explainer struct {
	Emojis   *repository.EmojiRepo
	Provider ExplanationProvider

	// Redis is an optional fast path in front of MySQL.  Nil disables it.
	Redis ExplanationCache

	// Publish, when set, emits an explanation.created event after a fresh
	// explanation is persisted.  Failures are logged and ignored; events
	// are best-effort.
	Publish func(ctx context.Context, ev queue.ExplanationCreatedEvent) error

	group singleflight.Group
}

func NewExplainer(emojis *repository.EmojiRepo, p ExplanationProvider, rdb *redis.Client) *Explainer {
	e := &Explainer{Emojis: emojis, Provider: p}
	// Assign only a live client; a typed nil inside the interface would
	// defeat the nil checks that disable the fast path.
	if rdb != nil {
		e.Redis = rdb
	}
	return e
}

// Explain returns the explanation for a single emoji symbol, consulting the
// store first and the provider on a miss.  The first stored answer wins for
// the lifetime of the record.
func (e *Explainer) Explain(ctx context.Context, symbol string) (string, error) {
	v, err, _ := e.group.Do(symbol, func() (interface{}, error) {
		return e.lookup(ctx, symbol)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (e *Explainer) lookup(ctx context.Context, symbol string) (string, error) {
	if e.Redis != nil {
		if v, err := e.Redis.Get(ctx, redisKey(symbol)).Result(); err == nil && v != "" {
			return v, nil
		}
	}

	content, err := e.Emojis.GetExplanationBySymbol(ctx, symbol)
	if err == nil {
		e.backfillRedis(ctx, symbol, content)
		return content, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	// Miss: one synchronous provider call, no retries.
	text, err := e.Provider.Explain(ctx, symbol)
	if err != nil {
		return "", err
	}

	emojiID, err := e.emojiID(ctx, symbol)
	if err != nil {
		return "", err
	}

	if _, err := e.Emojis.CreateExplanation(ctx, emojiID, text, systemAuthorID); err != nil {
		if errors.Is(err, repository.ErrExplanationExists) {
			// A writer in another process got there first; its answer wins.
			return e.Emojis.GetExplanationBySymbol(ctx, symbol)
		}
		return "", err
	}

	e.backfillRedis(ctx, symbol, text)
	if e.Publish != nil {
		ev := queue.ExplanationCreatedEvent{
			EmojiID:   emojiID,
			Symbol:    symbol,
			Content:   text,
			UpdatedBy: systemAuthorID,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if perr := e.Publish(ctx, ev); perr != nil {
			log.Printf("explainer: publish explanation.created failed: %v", perr)
		}
	}
	return text, nil
}

// Delete removes a stored explanation by row id and drops the redis entry
// for its symbol, so the next lookup for that emoji goes back to the
// provider instead of serving the deleted content until the TTL runs out.
// It reports whether a row was actually deleted.
func (e *Explainer) Delete(ctx context.Context, id uint64) (bool, error) {
	symbol, err := e.Emojis.SymbolByExplanationID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	deleted, err := e.Emojis.DeleteExplanation(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted && e.Redis != nil {
		if derr := e.Redis.Del(ctx, redisKey(symbol)).Err(); derr != nil {
			log.Printf("explainer: redis del failed: %v", derr)
		}
	}
	return deleted, nil
}

// emojiID resolves the emoji row id for a symbol, creating the row when the
// symbol has never been seen.
func (e *Explainer) emojiID(ctx context.Context, symbol string) (uint64, error) {
	em, err := e.Emojis.FindBySymbol(ctx, symbol)
	if err == nil {
		return em.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return e.Emojis.CreateEmoji(ctx, symbol)
}

func (e *Explainer) backfillRedis(ctx context.Context, symbol, content string) {
	if e.Redis == nil {
		return
	}
	if err := e.Redis.Set(ctx, redisKey(symbol), content, redisTTL).Err(); err != nil {
		log.Printf("explainer: redis set failed: %v", err)
	}
}

func redisKey(symbol string) string { return "explain:" + symbol }
