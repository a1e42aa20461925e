package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type localeContextKey struct{}

// LocaleKey is the context key under which the detected locale is stored.
var LocaleKey = localeContextKey{}

// CountryLookup resolves ISO country codes for an IP address. A nil lookup
// disables the GeoIP fallback.
type CountryLookup func(ip string) (string, error)

// countryLocales maps a few high-traffic countries onto a default speech
// language so that voice selection has a sensible fallback when the client
// sends no Accept-Language header.
var countryLocales = map[string]string{
	"DE": "de", "AT": "de", "CH": "de",
	"FR": "fr",
	"ES": "es", "MX": "es", "AR": "es", "CO": "es",
	"BR": "pt", "PT": "pt",
	"IT": "it",
	"JP": "ja",
	"KR": "ko",
	"CN": "zh", "TW": "zh",
	"IN": "hi",
	"ID": "id",
}

// Locale detects the caller's preferred language: explicit X-Locale header
// first, then Accept-Language, then GeoIP country, then the fallback.
func Locale(fallback string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, fallback, lookup)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, lookup CountryLookup) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return strings.ToLower(v)
	}
	if v := parseAcceptLanguage(r.Header.Get("Accept-Language")); v != "" {
		return v
	}
	if lookup != nil {
		if country, err := lookup(ClientIP(r)); err == nil {
			if locale, ok := countryLocales[strings.ToUpper(country)]; ok {
				return locale
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "en"
}

func parseAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		locale := strings.TrimSpace(strings.Split(part, ";")[0])
		if locale != "" && locale != "*" {
			return strings.ToLower(locale)
		}
	}
	return ""
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the locale stored by Locale, or "en".
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok && v != "" {
		return v
	}
	return "en"
}
