package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID     = "build_id"
	KeyPath        = "path"
	KeyOutput      = "output"
	KeyLayout      = "layout"
	KeyElement     = "element"
	KeyCategory    = "category"
	KeyKind        = "kind"
	KeyChainLength = "chain_length"
	KeyStep        = "step"
	KeyDurationMS  = "duration_ms"
	KeyURL         = "url"
	KeyName        = "name"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Layout(name string) slog.Attr    { return slog.String(KeyLayout, name) }
func Element(name string) slog.Attr   { return slog.String(KeyElement, name) }
func Category(name string) slog.Attr  { return slog.String(KeyCategory, name) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func ChainLength(n int) slog.Attr     { return slog.Int(KeyChainLength, n) }
func Step(i int) slog.Attr            { return slog.Int(KeyStep, i) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
