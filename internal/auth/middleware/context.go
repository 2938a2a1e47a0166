package auth

import (
	"context"

	"github.com/thuong-9/pydoan/internal/rbac"
)

type ctxKey string

const ctxKeySub ctxKey = "sub"

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeySub).(string)
	return s
}

// WithClaims stores the token subject and its role for rbac checks.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return rbac.WithRole(WithSubject(ctx, c.Sub), c.Role)
}
