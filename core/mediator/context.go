package mediator

import "context"

type messageCtx struct{}

type tokenCtx struct{}

// withDelivery attaches the message name and subscription token of the current
// dispatch to ctx.
func withDelivery(ctx context.Context, message string, token Token) context.Context {
	ctx = context.WithValue(ctx, messageCtx{}, message)
	return context.WithValue(ctx, tokenCtx{}, token)
}

// MessageFromContext returns the name of the message being delivered.
// Returns empty string outside a subscriber callback.
func MessageFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(messageCtx{}).(string); ok {
		return name
	}
	return ""
}

// TokenFromContext returns the token of the subscription being invoked.
// Returns the zero Token outside a subscriber callback.
func TokenFromContext(ctx context.Context) Token {
	if token, ok := ctx.Value(tokenCtx{}).(Token); ok {
		return token
	}
	return Token{}
}
