// Package logfields holds the canonical slog attribute keys used across
// pubgraph so log lines stay greppable.
package logfields

import "log/slog"

const (
	KeyPath      = "path"
	KeyStage     = "stage"
	KeyStatus    = "status"
	KeySource    = "source"
	KeyRequestID = "request_id"
	KeyFile      = "file"
	KeyError     = "error"
)

func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func Stage(name string) slog.Attr  { return slog.String(KeyStage, name) }
func Status(code int) slog.Attr    { return slog.Int(KeyStatus, code) }
func Source(name string) slog.Attr { return slog.String(KeySource, name) }
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}
func File(name string) slog.Attr { return slog.String(KeyFile, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
