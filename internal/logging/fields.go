package logging

import "log/slog"

// Common field names for consistent logging across the pipeline.
const (
	FieldService       = "service"
	FieldCorrelationID = "correlation_id"
	FieldKind          = "kind"
	FieldSource        = "source"
	FieldStage         = "stage"
	FieldRoute         = "route"
	FieldCategory      = "category"
	FieldPriority      = "priority"
	FieldTrustState    = "trust_state"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// CorrelationID returns a slog attribute for the correlation identifier.
func CorrelationID(id string) slog.Attr {
	return slog.String(FieldCorrelationID, id)
}

// Kind returns a slog attribute for the detected input kind.
func Kind(kind string) slog.Attr {
	return slog.String(FieldKind, kind)
}

// Source returns a slog attribute for the item source.
func Source(source string) slog.Attr {
	return slog.String(FieldSource, source)
}

// Stage returns a slog attribute for the pipeline stage name.
func Stage(stage string) slog.Attr {
	return slog.String(FieldStage, stage)
}

// Route returns a slog attribute for the routing destination.
func Route(route string) slog.Attr {
	return slog.String(FieldRoute, route)
}

// Duration returns a slog attribute for a duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error message.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
