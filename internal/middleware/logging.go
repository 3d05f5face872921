// Package middleware provides Fiber middleware and the process-wide structured logger.
package middleware

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger is the process-wide structured logger.
var Logger *slog.Logger

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	MemberIDKey  contextKey = "member_id"
	TraceIDKey   contextKey = "trace_id"
)

// Fiber locals populated by the middleware chain.
const (
	LocalRequestID = "requestid"
	LocalMemberID  = "memberID"
	LocalTraceID   = "traceID"
)

// requestFields maps each Fiber local onto the context key and log attribute it becomes.
var requestFields = []struct {
	local string
	key   contextKey
}{
	{LocalRequestID, RequestIDKey},
	{LocalMemberID, MemberIDKey},
	{LocalTraceID, TraceIDKey},
}

// ctxHandler copies request-scoped values from the context onto every record.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, f := range requestFields {
		if v := ctx.Value(f.key); v != nil {
			r.AddAttrs(slog.Any(string(f.key), v))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

func init() {
	Logger = NewLogger(os.Getenv("APP_ENV"))
}

// NewLogger returns a JSON logger for production and a text logger otherwise.
// Tests only see warnings.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "test" {
		opts.Level = slog.LevelWarn
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(&ctxHandler{handler})
}

// WithMemberID tags ctx with the acting member.
func WithMemberID(ctx context.Context, memberID uint) context.Context {
	return context.WithValue(ctx, MemberIDKey, memberID)
}

// ContextMiddleware moves request-scoped locals into the user context so
// service code logging with a ctx picks them up.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		for _, f := range requestFields {
			if v := c.Locals(f.local); v != nil {
				ctx = context.WithValue(ctx, f.key, v)
			}
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger logs one line per request.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.IP()),
		}

		level, msg := slog.LevelInfo, "request"
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
			level, msg = slog.LevelError, "request failed"
		} else if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		Logger.LogAttrs(c.UserContext(), level, msg, attrs...)
		return err
	}
}
