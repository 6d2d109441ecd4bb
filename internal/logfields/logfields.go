package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyRoute      = "route"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyAsset      = "asset"
	KeyCount      = "count"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyEvent      = "event"
	KeyOp         = "op"
	KeyState      = "state"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Route(p string) slog.Attr        { return slog.String(KeyRoute, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Asset(a string) slog.Attr        { return slog.String(KeyAsset, a) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Event(name string) slog.Attr     { return slog.String(KeyEvent, name) }
func Op(op string) slog.Attr          { return slog.String(KeyOp, op) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
