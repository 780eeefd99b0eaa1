package chat

import "fmt"

// ConfigurationError reports an invalid model setup. It is fatal to engine
// construction and surfaced immediately.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// TurnNotFoundError reports an out-of-range turn index.
type TurnNotFoundError struct {
	Turn int
}

func (e *TurnNotFoundError) Error() string {
	return fmt.Sprintf("turn %d not found", e.Turn)
}

// VersionNotFoundError reports an out-of-range version index on a turn.
type VersionNotFoundError struct {
	Turn    int
	Version int
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %d not found on turn %d", e.Version, e.Turn)
}

// RoleMismatchError reports an attempt to append a version with a role
// different from the turn's. Turns alternate user/assistant by construction;
// the role tag makes that an enforced invariant rather than caller
// discipline.
type RoleMismatchError struct {
	Turn int
	Want string
	Got  string
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("turn %d holds %s messages, not %s", e.Turn, e.Want, e.Got)
}

// RecognitionError reports that OCR declined or failed to read the photo.
// Recoverable; the user can retake or retype the question.
type RecognitionError struct {
	Reason string
}

func (e *RecognitionError) Error() string {
	return "recognition failed: " + e.Reason
}

// GatewayError wraps a completion-endpoint failure. Recoverable; the user can
// retry the same action.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return "completion request failed: " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
