package message

import (
	"testing"
)

func TestProject(t *testing.T) {
	sess := &Session{
		ID: "chat_1",
		Turns: []Turn{
			{Index: 0, Role: RoleUser, IDs: []string{"chat_1_msg_1"}, Version: 0},
			{Index: 1, Role: RoleAssistant, IDs: []string{"chat_1_msg_2", "chat_1_msg_3"}, Version: 1},
		},
	}
	msgs := map[string]*Message{
		"chat_1_msg_1": {ID: "chat_1_msg_1", Role: RoleUser, Content: "2+2=?"},
		"chat_1_msg_2": {ID: "chat_1_msg_2", Role: RoleAssistant, Content: "4"},
		"chat_1_msg_3": {ID: "chat_1_msg_3", Role: RoleAssistant, Content: "four"},
	}

	current, err := Project(sess, msgs)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(current) != len(sess.Turns) {
		t.Fatalf("expected %d current messages, got %d", len(sess.Turns), len(current))
	}
	if current[0].Content != "2+2=?" {
		t.Errorf("turn 0: expected question, got %q", current[0].Content)
	}
	if current[1].Content != "four" {
		t.Errorf("turn 1: expected active version content, got %q", current[1].Content)
	}
}

func TestProjectMissingMessage(t *testing.T) {
	sess := &Session{
		ID:    "chat_1",
		Turns: []Turn{{Index: 0, Role: RoleUser, IDs: []string{"chat_1_msg_1"}, Version: 0}},
	}

	if _, err := Project(sess, map[string]*Message{}); err == nil {
		t.Fatal("expected error for missing message")
	}
}

func TestProjectVersionOutOfRange(t *testing.T) {
	sess := &Session{
		ID:    "chat_1",
		Turns: []Turn{{Index: 0, Role: RoleUser, IDs: []string{"chat_1_msg_1"}, Version: 3}},
	}
	msgs := map[string]*Message{"chat_1_msg_1": {ID: "chat_1_msg_1"}}

	if _, err := Project(sess, msgs); err == nil {
		t.Fatal("expected error for out-of-range version")
	}
}
