// Package chat implements the conversation state engine: the branching
// turn/version model backing one session, its write-through persistence, and
// the OCR routing that converts photo questions into text before a text-only
// solving model sees them.
//
// Callers serialize mutating operations against one engine instance; the
// engine performs no locking of its own.
package chat

import (
	"context"
	"fmt"

	"github.com/ruixin/snapsolve/internal/config"
	"github.com/ruixin/snapsolve/internal/history"
	"github.com/ruixin/snapsolve/internal/log"
	"github.com/ruixin/snapsolve/internal/message"
	"github.com/ruixin/snapsolve/internal/provider"
	"github.com/ruixin/snapsolve/internal/storage"
)

// Engine drives one conversation. It keeps the session record, the message
// arena, and the flattened current projection in sync, persisting after every
// mutation.
type Engine struct {
	history *history.Index

	solving config.Model
	solveGW provider.Gateway

	ocrModel *config.Model
	ocrGW    provider.Gateway

	session  *message.Session
	messages map[string]*message.Message
	current  []*message.Message
}

// NewEngine validates the model configuration and builds the engine around a
// session record and its message arena. Pass an empty session and arena for a
// fresh conversation; the session key is allocated on the first persisted
// mutation.
func NewEngine(cfg *config.Config, newGateway provider.Factory, hist *history.Index,
	sess *message.Session, msgs map[string]*message.Message) (*Engine, error) {

	if cfg.ActiveSolvingModel == "" {
		return nil, &ConfigurationError{Reason: "no solving model configured"}
	}
	solving := cfg.ModelByTitle(cfg.ActiveSolvingModel)
	if solving == nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("solving model %q not found", cfg.ActiveSolvingModel)}
	}

	if newGateway == nil {
		newGateway = provider.DefaultFactory
	}

	e := &Engine{
		history: hist,
		solving: *solving,
		solveGW: newGateway(solving.APIKey, solving.APIBase),
	}

	if solving.Type == config.ModelText {
		if cfg.ActiveOCRModel == "" {
			return nil, &ConfigurationError{Reason: "a text-only solving model requires an OCR model"}
		}
		ocr := cfg.ModelByTitle(cfg.ActiveOCRModel)
		if ocr == nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("OCR model %q not found", cfg.ActiveOCRModel)}
		}
		e.ocrModel = ocr
		e.ocrGW = newGateway(ocr.APIKey, ocr.APIBase)
	}

	if sess == nil {
		sess = &message.Session{}
	}
	if msgs == nil {
		msgs = make(map[string]*message.Message)
	}

	current, err := message.Project(sess, msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to project session %s: %w", sess.ID, err)
	}

	e.session = sess
	e.messages = msgs
	e.current = current
	return e, nil
}

// NeedsOCR reports whether photo questions are routed through OCR before the
// solving model sees them.
func (e *Engine) NeedsOCR() bool {
	return e.ocrModel != nil
}

// Session returns the underlying session record.
func (e *Engine) Session() *message.Session {
	return e.session
}

// CurrentMessages returns the flattened projection: one message per turn, at
// each turn's active version.
func (e *Engine) CurrentMessages() []*message.Message {
	return e.current
}

// CurrentMessage returns the active message of a turn, or nil when the turn
// does not exist.
func (e *Engine) CurrentMessage(turn int) *message.Message {
	if turn < 0 || turn >= len(e.current) {
		return nil
	}
	return e.current[turn]
}

// Turn returns the turn at the given index, or nil.
func (e *Engine) Turn(turn int) *message.Turn {
	if turn < 0 || turn >= len(e.session.Turns) {
		return nil
	}
	return &e.session.Turns[turn]
}

// Message returns a message version by id, or nil.
func (e *Engine) Message(id string) *message.Message {
	return e.messages[id]
}

// createMessage appends a message: to a brand-new trailing turn when turn is
// negative, as a new active version of an existing turn otherwise. The
// message write is issued before the session write that references it.
func (e *Engine) createMessage(ctx context.Context, turn int, role message.Role, input message.Input) (*message.Message, error) {
	if turn < 0 {
		turn = len(e.session.Turns)
	}
	if turn > len(e.session.Turns) {
		return nil, &TurnNotFoundError{Turn: turn}
	}
	if turn < len(e.session.Turns) {
		if t := &e.session.Turns[turn]; t.Role != role {
			return nil, &RoleMismatchError{Turn: turn, Want: string(t.Role), Got: string(role)}
		}
	}

	if e.session.ID == "" {
		key, err := e.history.NextSessionKey(ctx)
		if err != nil {
			return nil, err
		}
		e.session.ID = key
		e.session.Timestamp = message.Now()
	}

	e.session.Seq++
	msg := &message.Message{
		ID:          storage.MessageKey(e.session.ID, e.session.Seq),
		Role:        role,
		Content:     input.Text,
		ImageURI:    input.ImageURI,
		OriginalURI: input.OriginalURI,
		Timestamp:   message.Now(),
		Turn:        turn,
	}

	if turn == len(e.session.Turns) {
		e.session.Turns = append(e.session.Turns, message.Turn{
			Index:   turn,
			Role:    role,
			IDs:     []string{msg.ID},
			Version: 0,
		})
		e.current = append(e.current, msg)
	} else {
		t := &e.session.Turns[turn]
		t.IDs = append(t.IDs, msg.ID)
		t.Version = len(t.IDs) - 1
		msg.Version = t.Version
		e.current[turn] = msg
	}
	e.messages[msg.ID] = msg

	if e.session.Title == "" && role == message.RoleUser {
		e.session.Title = history.GenerateTitle(input.Text)
	}

	if err := e.history.SaveSession(ctx, e.session, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// CreateUserMessage appends a new user turn. When the solving model is
// text-only and the input carries an image, the image is first run through
// OCR; the recognized text is what gets persisted and the image is kept only
// for display.
func (e *Engine) CreateUserMessage(ctx context.Context, input message.Input) (*message.Message, error) {
	if e.NeedsOCR() && input.ImageURI != "" {
		text, err := e.recognize(ctx, input.ImageURI)
		if err != nil {
			return nil, err
		}
		originalURI := input.OriginalURI
		if originalURI == "" {
			originalURI = input.ImageURI
		}
		return e.createMessage(ctx, -1, message.RoleUser, message.Input{Text: text, OriginalURI: originalURI})
	}
	return e.createMessage(ctx, -1, message.RoleUser, input)
}

// UpdateUserMessage appends a new version to an existing user turn and makes
// it active.
func (e *Engine) UpdateUserMessage(ctx context.Context, turn int, input message.Input) (*message.Message, error) {
	if turn < 0 || turn >= len(e.session.Turns) {
		return nil, &TurnNotFoundError{Turn: turn}
	}
	return e.createMessage(ctx, turn, message.RoleUser, input)
}

// CreateAssistantMessage appends a new assistant turn.
func (e *Engine) CreateAssistantMessage(ctx context.Context, content string) (*message.Message, error) {
	return e.createMessage(ctx, -1, message.RoleAssistant, message.Input{Text: content})
}

// UpdateAssistantMessage appends a new version to an existing assistant turn
// and makes it active.
func (e *Engine) UpdateAssistantMessage(ctx context.Context, turn int, content string) (*message.Message, error) {
	if turn < 0 || turn >= len(e.session.Turns) {
		return nil, &TurnNotFoundError{Turn: turn}
	}
	return e.createMessage(ctx, turn, message.RoleAssistant, message.Input{Text: content})
}

// Chat sends the current projection, truncated to the given turn, to the
// solving model and returns the answer text. A negative turn means the last
// one. The projection is left untouched; callers append the answer
// themselves or use RefreshChat.
func (e *Engine) Chat(ctx context.Context, turn int) (string, error) {
	if turn < 0 {
		turn = len(e.session.Turns) - 1
	}
	if turn < 0 || turn >= len(e.session.Turns) {
		return "", &TurnNotFoundError{Turn: turn}
	}

	msgs := make([]provider.ChatMessage, 0, turn+2)
	msgs = append(msgs, provider.ChatMessage{Role: message.RoleSystem, Content: solvePrompt})
	for _, m := range e.current[:turn+1] {
		if m.Role == message.RoleUser && m.ImageURI != "" {
			msgs = append(msgs, provider.ChatMessage{
				Role:     message.RoleUser,
				Content:  solveImagePrompt,
				ImageURL: m.ImageURI,
			})
			continue
		}
		msgs = append(msgs, provider.ChatMessage{Role: m.Role, Content: m.Content})
	}

	if log.IsEnabled() {
		log.Logger().Debug("solving request",
			log.SessionField(e.session),
			log.MessagesField(e.current[:turn+1]))
	}

	text, err := e.solveGW.Complete(ctx, provider.Request{
		Model:           e.solving.Model,
		Messages:        msgs,
		Temperature:     0.7,
		PresencePenalty: 0.1,
	})
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	return text, nil
}

// RefreshChat regenerates the answer at or after the given turn. Pointing at
// a user turn discards everything after it and solves it again; pointing at
// an assistant turn discards that turn too and solves the preceding one. The
// fresh answer is appended as a new trailing assistant turn and returned.
func (e *Engine) RefreshChat(ctx context.Context, turn int) (*message.Message, error) {
	if turn < 0 || turn >= len(e.session.Turns) {
		return nil, &TurnNotFoundError{Turn: turn}
	}

	solveTurn := turn
	if e.current[turn].Role == message.RoleAssistant {
		solveTurn = turn - 1
		if err := e.ResetChat(ctx, turn); err != nil {
			return nil, err
		}
	} else {
		if err := e.ResetChat(ctx, turn+1); err != nil {
			return nil, err
		}
	}

	answer, err := e.Chat(ctx, solveTurn)
	if err != nil {
		return nil, err
	}
	return e.CreateAssistantMessage(ctx, answer)
}

// SwitchVersion activates an existing version of a turn. Only the session
// record is persisted; messages are immutable.
func (e *Engine) SwitchVersion(ctx context.Context, turn, version int) error {
	if turn < 0 || turn >= len(e.session.Turns) {
		return &TurnNotFoundError{Turn: turn}
	}
	t := &e.session.Turns[turn]
	if version < 0 || version >= len(t.IDs) {
		return &VersionNotFoundError{Turn: turn, Version: version}
	}

	t.Version = version
	m, ok := e.messages[t.ActiveID()]
	if !ok {
		return fmt.Errorf("message %s not loaded", t.ActiveID())
	}
	e.current[turn] = m

	return e.history.SaveSession(ctx, e.session)
}

// ResetChat truncates the conversation to turns [0, fromTurn), deleting every
// message version the removed turns referenced. The shortened session record
// is persisted before the message keys are deleted, so an interruption leaves
// orphaned keys at worst, never a record referencing deleted messages.
// Message ids are never reused afterwards; the session's counter only grows.
func (e *Engine) ResetChat(ctx context.Context, fromTurn int) error {
	if fromTurn < 0 {
		return &TurnNotFoundError{Turn: fromTurn}
	}
	if fromTurn >= len(e.session.Turns) {
		return nil
	}

	var removed []string
	for _, t := range e.session.Turns[fromTurn:] {
		removed = append(removed, t.IDs...)
	}
	e.session.Turns = e.session.Turns[:fromTurn]
	e.current = e.current[:fromTurn]
	for _, id := range removed {
		delete(e.messages, id)
	}

	log.LogStore("reset", e.session.ID)
	return e.history.ResetSession(ctx, e.session, removed)
}
