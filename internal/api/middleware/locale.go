package middleware

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/mediagate/internal/ai"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

type contextKey string

const localeKey contextKey = "locale"

func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// GetLocale returns the request's base language, English when unset.
func GetLocale(r *http.Request) string {
	if l, ok := r.Context().Value(localeKey).(string); ok && l != "" {
		return l
	}
	return models.DefaultLocale
}

// Locale reduces Accept-Language to a base language code for the handlers.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := ai.NormalizeLocale(r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), locale)))
	})
}
