package auth

import (
	"context"

	"github.com/mind-engage/student-submissions/internal/exam"
)

type ctxKey string

const (
	ctxKeySub  ctxKey = "sub"
	ctxKeyUser ctxKey = "user"
)

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySub); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func WithUser(ctx context.Context, u exam.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, u)
}

// UserFromContext returns the caller loaded by JWTMiddleware.
func UserFromContext(ctx context.Context) (exam.User, bool) {
	u, ok := ctx.Value(ctxKeyUser).(exam.User)
	return u, ok
}
