package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/ruixin/snapsolve/internal/message"
	"github.com/ruixin/snapsolve/internal/storage"
)

func TestNextSessionKey(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex(storage.NewMemoryStore())

	key, err := ix.NextSessionKey(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if key != "chat_1" {
		t.Errorf("first key = %q, want chat_1", key)
	}

	key, err = ix.NextSessionKey(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if key != "chat_2" {
		t.Errorf("second key = %q, want chat_2", key)
	}
}

func TestNextSessionKeyResumesPersistedCounter(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	if err := store.SetItem(ctx, storage.ChatIndexKey, 41); err != nil {
		t.Fatal(err)
	}

	ix := NewIndex(store)
	key, err := ix.NextSessionKey(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if key != "chat_42" {
		t.Errorf("key = %q, want chat_42", key)
	}
}

// seedSessions stores n sessions through the index and returns it.
func seedSessions(t *testing.T, store storage.Store, n int) *Index {
	t.Helper()
	ctx := context.Background()
	ix := NewIndex(store)
	for i := 1; i <= n; i++ {
		key, err := ix.NextSessionKey(ctx)
		if err != nil {
			t.Fatal(err)
		}
		s := &message.Session{ID: key, Title: fmt.Sprintf("session %d", i), Timestamp: message.Now()}
		if err := ix.SaveSession(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	return ix
}

func TestLoadHistoryPagination(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	ix := seedSessions(t, store, 45)

	// Punch holes: delete a spread of sessions, including a run that spans
	// a batch boundary.
	for _, i := range []int{45, 30, 29, 28, 27, 26, 12, 3} {
		if err := store.RemoveItem(ctx, storage.SessionKey(i)); err != nil {
			t.Fatal(err)
		}
	}

	var seen []string
	cursor := 0
	for {
		next, sessions, err := ix.LoadHistory(ctx, cursor)
		if err != nil {
			t.Fatal(err)
		}
		if next <= cursor && len(sessions) > 0 {
			t.Fatalf("cursor did not advance: %d -> %d", cursor, next)
		}
		cursor = next
		for _, s := range sessions {
			seen = append(seen, s.ID)
		}
		more, err := ix.HasMore(ctx, cursor)
		if err != nil {
			t.Fatal(err)
		}
		if !more {
			break
		}
	}

	// 45 created minus 8 deleted.
	if len(seen) != 37 {
		t.Fatalf("enumerated %d sessions, want 37: %v", len(seen), seen)
	}

	// Strictly decreasing index order, no duplicates.
	prev := 1 << 30
	for _, id := range seen {
		var idx int
		if _, err := fmt.Sscanf(id, "chat_%d", &idx); err != nil {
			t.Fatalf("unexpected session id %q", id)
		}
		if idx >= prev {
			t.Fatalf("session %s out of order (prev index %d)", id, prev)
		}
		prev = idx
	}
}

func TestLoadHistoryBatchSize(t *testing.T) {
	ctx := context.Background()
	ix := seedSessions(t, storage.NewMemoryStore(), 25)

	cursor, sessions, err := ix.LoadHistory(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != BatchSize {
		t.Errorf("first page has %d sessions, want %d", len(sessions), BatchSize)
	}
	if sessions[0].ID != "chat_25" {
		t.Errorf("first session = %s, want chat_25", sessions[0].ID)
	}

	_, sessions, err = ix.LoadHistory(ctx, cursor)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 5 {
		t.Errorf("second page has %d sessions, want 5", len(sessions))
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	ix := seedSessions(t, store, 5)

	if err := ix.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	_, sessions, err := ix.LoadHistory(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions after clear, got %d", len(sessions))
	}

	// Counter restarts from zero.
	key, err := ix.NextSessionKey(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if key != "chat_1" {
		t.Errorf("key after clear = %q, want chat_1", key)
	}
}

func TestSaveAndLoadMessages(t *testing.T) {
	ctx := context.Background()
	ix := NewIndex(storage.NewMemoryStore())

	key, err := ix.NextSessionKey(ctx)
	if err != nil {
		t.Fatal(err)
	}

	s := &message.Session{
		ID:  key,
		Seq: 2,
		Turns: []message.Turn{
			{Index: 0, Role: message.RoleUser, IDs: []string{key + "_msg_1"}, Version: 0},
			{Index: 1, Role: message.RoleAssistant, IDs: []string{key + "_msg_2"}, Version: 0},
		},
	}
	msgs := []*message.Message{
		{ID: key + "_msg_1", Role: message.RoleUser, Content: "2+2=?", Turn: 0},
		{ID: key + "_msg_2", Role: message.RoleAssistant, Content: "4", Turn: 1},
	}
	if err := ix.SaveSession(ctx, s, msgs...); err != nil {
		t.Fatal(err)
	}

	loaded, err := ix.Session(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil || len(loaded.Turns) != 2 {
		t.Fatalf("loaded session = %+v", loaded)
	}

	loadedMsgs, err := ix.Messages(ctx, loaded)
	if err != nil {
		t.Fatal(err)
	}
	if len(loadedMsgs) != 2 {
		t.Fatalf("loaded %d messages, want 2", len(loadedMsgs))
	}
	if loadedMsgs[key+"_msg_2"].Content != "4" {
		t.Errorf("message content = %q", loadedMsgs[key+"_msg_2"].Content)
	}
}

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty falls back", "", "Photo question"},
		{"short passes through", "2+2=?", "2+2=?"},
		{"whitespace normalized", "solve\n  this   equation", "solve this equation"},
		{
			"long truncates at word boundary",
			"find the derivative of the function f of x equals x squared plus three x minus five",
			"find the derivative of the function f of x equals x squared...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateTitle(tt.in); got != tt.want {
				t.Errorf("GenerateTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
