package tracing

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kitdeneme/kit/internal/auth"
)

// Middleware wraps a gateway so each call runs in a "gateway.<op>" span.
// Errors are recorded on the span; auth sentinels are also tagged with a
// short error.kind. A nil tracer gives a nil middleware, which auth.Chain
// skips.
func Middleware(tracer trace.Tracer) auth.Middleware {
	if tracer == nil {
		return nil
	}
	return func(next auth.Gateway) auth.Gateway {
		return &traced{next: next, tracer: tracer}
	}
}

type traced struct {
	next   auth.Gateway
	tracer trace.Tracer
}

func (t *traced) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String(AttrOperation, op))
	return t.tracer.Start(ctx, SpanPrefixGateway+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func finish(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if kind := errorKind(err); kind != "" {
		span.SetAttributes(attribute.String(AttrErrorKind, kind))
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, auth.ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, auth.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, auth.ErrNotSignedIn):
		return "not_signed_in"
	case errors.Is(err, auth.ErrThrottled):
		return "throttled"
	default:
		return ""
	}
}

func (t *traced) Register(ctx context.Context, creds auth.Credentials) error {
	ctx, span := t.start(ctx, OpRegister, attribute.String(AttrUsername, creds.Username))
	err := t.next.Register(ctx, creds)
	finish(span, err)
	return err
}

func (t *traced) SignIn(ctx context.Context, identifier, password string) (*auth.User, error) {
	ctx, span := t.start(ctx, OpSignIn, attribute.String(AttrIdentifier, identifier))
	u, err := t.next.SignIn(ctx, identifier, password)
	if u != nil {
		span.SetAttributes(attribute.String(AttrUserID, u.ID))
	}
	finish(span, err)
	return u, err
}

func (t *traced) SignOut(ctx context.Context) error {
	ctx, span := t.start(ctx, OpSignOut)
	err := t.next.SignOut(ctx)
	finish(span, err)
	return err
}

func (t *traced) CurrentUser(ctx context.Context) (*auth.User, error) {
	ctx, span := t.start(ctx, OpCurrentUser)
	u, err := t.next.CurrentUser(ctx)
	if u != nil {
		span.SetAttributes(attribute.String(AttrUserID, u.ID))
	}
	finish(span, err)
	return u, err
}

func (t *traced) ChangePassword(ctx context.Context, current, next string) error {
	ctx, span := t.start(ctx, OpChangePassword)
	err := t.next.ChangePassword(ctx, current, next)
	finish(span, err)
	return err
}
