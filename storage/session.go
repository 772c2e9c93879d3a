// Package storage persists conversation sessions so a plan survives
// process restarts and can be exported later.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/tripkit-ai/tripkit/trip"
)

// BucketSessions is the NATS KV bucket holding sessions.
const BucketSessions = "TRIPKIT_SESSIONS"

// sessionIDPattern bounds session IDs to UUID-safe characters so an ID
// can never escape a KV key or a filename.
var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ValidSessionID reports whether an ID is safe to use as a storage key.
func ValidSessionID(id string) bool {
	return id != "" && sessionIDPattern.MatchString(id)
}

// SessionStore persists and retrieves sessions.
type SessionStore interface {
	Save(ctx context.Context, sess *trip.Session) error
	Load(ctx context.Context, id string) (*trip.Session, error)
	List(ctx context.Context) ([]*trip.Session, error)
	Delete(ctx context.Context, id string) error
}

// KVStore keeps sessions in a NATS JetStream KV bucket.
type KVStore struct {
	sessions jetstream.KeyValue
}

// NewKVStore opens the sessions bucket, creating it if needed.
func NewKVStore(ctx context.Context, js jetstream.JetStream) (*KVStore, error) {
	kv, err := js.KeyValue(ctx, BucketSessions)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      BucketSessions,
			Description: "Tripkit conversation sessions",
			History:     5,
		})
		if err != nil {
			return nil, fmt.Errorf("create sessions bucket: %w", err)
		}
	}
	return &KVStore{sessions: kv}, nil
}

// Save writes the session under its ID.
func (s *KVStore) Save(ctx context.Context, sess *trip.Session) error {
	if !ValidSessionID(sess.ID) {
		return fmt.Errorf("invalid session ID %q", sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if _, err := s.sessions.Put(ctx, sess.ID, data); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Load retrieves a session by ID.
func (s *KVStore) Load(ctx context.Context, id string) (*trip.Session, error) {
	if !ValidSessionID(id) {
		return nil, fmt.Errorf("invalid session ID %q", id)
	}

	entry, err := s.sessions.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess trip.Session
	if err := json.Unmarshal(entry.Value(), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// List returns all stored sessions. Entries that fail to load are
// skipped.
func (s *KVStore) List(ctx context.Context) ([]*trip.Session, error) {
	keys, err := s.sessions.Keys(ctx)
	if err != nil {
		if err == jetstream.ErrNoKeysFound {
			return nil, nil
		}
		return nil, fmt.Errorf("list session keys: %w", err)
	}

	sessions := make([]*trip.Session, 0, len(keys))
	for _, key := range keys {
		entry, err := s.sessions.Get(ctx, key)
		if err != nil {
			continue
		}
		var sess trip.Session
		if err := json.Unmarshal(entry.Value(), &sess); err != nil {
			continue
		}
		sessions = append(sessions, &sess)
	}
	return sessions, nil
}

// Delete removes a session.
func (s *KVStore) Delete(ctx context.Context, id string) error {
	if !ValidSessionID(id) {
		return fmt.Errorf("invalid session ID %q", id)
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}
