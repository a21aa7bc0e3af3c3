package chatinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mementolabs/recall/pkg/chat"
	"github.com/redis/go-redis/v9"
)

// Session transcripts are capped so a long-running session cannot grow a
// key without bound.
const maxTranscriptEntries = 200

// RedisTranscriptStore keeps session transcripts as TTL'd Redis lists.
type RedisTranscriptStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTranscriptStore creates a transcript store backed by Redis.
func NewRedisTranscriptStore(client *redis.Client, ttl time.Duration) chat.TranscriptStore {
	return &RedisTranscriptStore{
		client: client,
		ttl:    ttl,
	}
}

func transcriptKey(sessionID string) string {
	return fmt.Sprintf("chat_transcript:%s", sessionID)
}

// Append pushes entries onto the session's transcript, trims it to the cap,
// and refreshes the TTL.
func (s *RedisTranscriptStore) Append(ctx context.Context, sessionID string, entries ...chat.TranscriptEntry) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]any, 0, len(entries))
	for _, e := range entries {
		jsonData, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript entry: %w", err)
		}
		values = append(values, jsonData)
	}

	key := transcriptKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -maxTranscriptEntries, -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append transcript in Redis: %w", err)
	}

	return nil
}

// History returns the full stored transcript for a session, oldest first.
func (s *RedisTranscriptStore) History(ctx context.Context, sessionID string) ([]chat.TranscriptEntry, error) {
	raw, err := s.client.LRange(ctx, transcriptKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript from Redis: %w", err)
	}

	entries := make([]chat.TranscriptEntry, 0, len(raw))
	for _, item := range raw {
		var e chat.TranscriptEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}
