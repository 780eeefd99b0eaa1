package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ruixin/snapsolve/internal/message"
)

// messageMarshaler wraps a Message for zap logging
type messageMarshaler message.Message

func (m messageMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", m.ID)
	enc.AddString("role", string(m.Role))
	enc.AddString("content", m.Content)
	if m.ImageURI != "" {
		enc.AddString("image_uri", m.ImageURI)
	}
	enc.AddInt("turn", m.Turn)
	enc.AddInt("version", m.Version)
	return nil
}

// messagesMarshaler wraps a slice of Messages for zap logging
type messagesMarshaler []*message.Message

func (m messagesMarshaler) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, msg := range m {
		if msg == nil {
			continue
		}
		_ = enc.AppendObject(messageMarshaler(*msg))
	}
	return nil
}

// MessagesField creates a zap field for messages
func MessagesField(messages []*message.Message) zap.Field {
	return zap.Array("messages", messagesMarshaler(messages))
}

// sessionMarshaler wraps a Session for zap logging
type sessionMarshaler message.Session

func (s sessionMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", s.ID)
	enc.AddString("title", s.Title)
	enc.AddInt("turns", len(s.Turns))
	enc.AddInt("seq", s.Seq)
	return nil
}

// SessionField creates a zap field for a session record
func SessionField(s *message.Session) zap.Field {
	return zap.Object("session", sessionMarshaler(*s))
}
