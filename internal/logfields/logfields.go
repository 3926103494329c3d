package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyLocale     = "locale"
	KeyMixin      = "mixin"
	KeyPrefix     = "prefix"
	KeyField      = "field"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyWarnings   = "warnings"
	KeyTrigger    = "trigger"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Locale(code string) slog.Attr     { return slog.String(KeyLocale, code) }
func Mixin(name string) slog.Attr      { return slog.String(KeyMixin, name) }
func Prefix(p string) slog.Attr        { return slog.String(KeyPrefix, p) }
func Field(name string) slog.Attr      { return slog.String(KeyField, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Warnings(n int) slog.Attr         { return slog.Int(KeyWarnings, n) }
func Trigger(reason string) slog.Attr  { return slog.String(KeyTrigger, reason) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
