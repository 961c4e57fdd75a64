package mediator

import (
	"github.com/google/uuid"
)

// Token identifies one registration or one cached broadcast.
// Tokens are compared by their unique id; two registrations for the same
// message always receive distinct tokens.
type Token struct {
	message string
	id      uuid.UUID
}

func newToken(message string) Token {
	return Token{message: message, id: uuid.New()}
}

// Message returns the message name the token was issued for.
func (t Token) Message() string {
	return t.message
}

// ID returns the unique identifier of the token.
func (t Token) ID() string {
	if t.IsZero() {
		return ""
	}
	return t.id.String()
}

// IsZero reports whether t is the zero Token, which is never issued by a Mediator.
func (t Token) IsZero() bool {
	return t.id == uuid.Nil
}

// String implements fmt.Stringer.
func (t Token) String() string {
	if t.IsZero() {
		return "<nil token>"
	}
	return t.message + "#" + t.id.String()
}
