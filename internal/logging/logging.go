// Package logging настраивает slog с маскировкой секретов.
//
// Токен Telegram-бота попадает в ссылки на файлы (https://api.telegram.org/file/bot<token>/...),
// поэтому обработчик вырезает его не только из атрибутов с «опасными» ключами,
// но и из любых строковых значений.
package logging

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue заменяет скрытые значения.
const MaskValue = "***REDACTED***"

var sensitiveKeywords = []string{"token", "secret", "password", "auth", "credential"}

// botTokenPattern описывает формат токена Telegram: <id>:<35 символов>.
var botTokenPattern = regexp.MustCompile(`\d{6,}:[A-Za-z0-9_-]{30,}`)

// SecureHandler оборачивает slog.Handler и маскирует чувствительные атрибуты.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler создаёт обёртку; nil означает обработчик slog по умолчанию.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// NewLogger создаёт текстовый логгер; verbose включает уровень Debug.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, Redact(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitized)}
}

func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// Redact вырезает токены бота из строки.
func Redact(s string) string {
	return botTokenPattern.ReplaceAllString(s, MaskValue)
}

func sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		sanitized := make([]slog.Attr, len(group))
		for i, ga := range group {
			sanitized[i] = sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	}

	key := strings.ToLower(a.Key)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(key, kw) {
			return slog.String(a.Key, MaskValue)
		}
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, Redact(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, Redact(err.Error()))
		}
	}
	return a
}
