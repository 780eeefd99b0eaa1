// Package history maintains the session index: a monotonically increasing
// counter that allocates session storage keys, plus reverse-chronological
// paginated listing over whatever sessions still exist. Constructed
// explicitly and handed to consumers; it holds no global state.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/ruixin/snapsolve/internal/log"
	"github.com/ruixin/snapsolve/internal/message"
	"github.com/ruixin/snapsolve/internal/storage"
)

// BatchSize is how many sessions one LoadHistory call returns at most.
const BatchSize = 20

// Index allocates session keys and pages through stored sessions.
type Index struct {
	store storage.Store

	mu      sync.Mutex
	current int // high-water mark of the counter; -1 until loaded
}

// NewIndex creates an index over the given store. The counter is loaded
// lazily on first use.
func NewIndex(store storage.Store) *Index {
	return &Index{store: store, current: -1}
}

// highWater loads the persisted counter once and returns it.
// Caller must hold mu.
func (ix *Index) highWater(ctx context.Context) (int, error) {
	if ix.current >= 0 {
		return ix.current, nil
	}
	var idx int
	if _, err := ix.store.GetItem(ctx, storage.ChatIndexKey, &idx); err != nil {
		return 0, fmt.Errorf("failed to load session counter: %w", err)
	}
	ix.current = idx
	return ix.current, nil
}

// NextSessionKey increments the persisted counter and returns the storage key
// for the new session. Indices are never reused, even after sessions are
// deleted.
func (ix *Index) NextSessionKey(ctx context.Context) (string, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, err := ix.highWater(ctx); err != nil {
		return "", err
	}
	next := ix.current + 1
	if err := ix.store.SetItem(ctx, storage.ChatIndexKey, next); err != nil {
		return "", fmt.Errorf("failed to persist session counter: %w", err)
	}
	ix.current = next
	return storage.SessionKey(next), nil
}

// SaveSession persists new messages and then the session record. Messages are
// always written before the record that references them, so a crash in
// between leaves at most an orphaned message key, never a dangling reference.
func (ix *Index) SaveSession(ctx context.Context, s *message.Session, msgs ...*message.Message) error {
	for _, m := range msgs {
		if err := ix.store.SetItem(ctx, m.ID, m); err != nil {
			return fmt.Errorf("failed to save message %s: %w", m.ID, err)
		}
		log.LogStore("set", m.ID)
	}
	if err := ix.store.SetItem(ctx, s.ID, s); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	log.LogStore("set", s.ID)
	return nil
}

// ResetSession persists a truncated session record and then deletes the
// message keys the removed turns referenced. The record goes first: a crash
// mid-deletion leaves orphaned message keys, never a session that references
// deleted messages.
func (ix *Index) ResetSession(ctx context.Context, s *message.Session, removedIDs []string) error {
	if err := ix.store.SetItem(ctx, s.ID, s); err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	for _, id := range removedIDs {
		if err := ix.store.RemoveItem(ctx, id); err != nil {
			return fmt.Errorf("failed to remove message %s: %w", id, err)
		}
		log.LogStore("remove", id)
	}
	return nil
}

// Session loads a session record by key. A missing session returns nil.
func (ix *Index) Session(ctx context.Context, key string) (*message.Session, error) {
	var s message.Session
	found, err := ix.store.GetItem(ctx, key, &s)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

// Messages loads every message version referenced by the session's turns.
func (ix *Index) Messages(ctx context.Context, s *message.Session) (map[string]*message.Message, error) {
	msgs := make(map[string]*message.Message)
	for _, t := range s.Turns {
		for _, id := range t.IDs {
			var m message.Message
			found, err := ix.store.GetItem(ctx, id, &m)
			if err != nil {
				return nil, fmt.Errorf("failed to load message %s: %w", id, err)
			}
			if found {
				msgs[id] = &m
			}
		}
	}
	return msgs, nil
}

// LoadHistory returns up to BatchSize sessions in reverse-chronological
// (decreasing index) order, starting below the slots already scanned. The
// cursor counts scanned index slots from the newest end, including holes left
// by deleted sessions; callers must chain the returned cursor into the next
// call.
func (ix *Index) LoadHistory(ctx context.Context, cursor int) (int, []*message.Session, error) {
	ix.mu.Lock()
	high, err := ix.highWater(ctx)
	ix.mu.Unlock()
	if err != nil {
		return cursor, nil, err
	}

	sessions := make([]*message.Session, 0, BatchSize)
	for i := high - cursor; i >= 1; i-- {
		cursor++
		s, err := ix.Session(ctx, storage.SessionKey(i))
		if err != nil {
			return cursor, sessions, err
		}
		if s == nil {
			continue // hole from a deleted session
		}
		sessions = append(sessions, s)
		if len(sessions) >= BatchSize {
			break
		}
	}
	return cursor, sessions, nil
}

// HasMore reports whether unscanned index slots remain below the high-water
// mark for the given cursor.
func (ix *Index) HasMore(ctx context.Context, cursor int) (bool, error) {
	ix.mu.Lock()
	high, err := ix.highWater(ctx)
	ix.mu.Unlock()
	if err != nil {
		return false, err
	}
	return high-cursor > 0, nil
}

// Clear deletes every session key up to the high-water mark and resets the
// counter to zero. Message keys are left behind; without their session record
// they are unreachable and harmless.
func (ix *Index) Clear(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	high, err := ix.highWater(ctx)
	if err != nil {
		return err
	}
	for i := 1; i <= high; i++ {
		if err := ix.store.RemoveItem(ctx, storage.SessionKey(i)); err != nil {
			return fmt.Errorf("failed to remove session %d: %w", i, err)
		}
	}
	if err := ix.store.SetItem(ctx, storage.ChatIndexKey, 0); err != nil {
		return fmt.Errorf("failed to reset session counter: %w", err)
	}
	ix.current = 0
	return nil
}
