package tracing

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumos-rgb/lumos/internal/areaspec"
)

// Span attribute keys.
const (
	AttrSpecChars   = "spec.chars"
	AttrSpecAreas   = "spec.areas"
	AttrSpecFile    = "spec.file"
	AttrErrorLine   = "error.line"
	AttrErrorCol    = "error.col"
	AttrProfileID   = "profile.id"
	AttrProfiles    = "profiles.count"
	AttrBackendAddr = "backend.address"
)

// Span name prefixes.
const (
	SpanPrefixCLI   = "cli."
	SpanPrefixParse = "parse."
	SpanPrefixSync  = "sync."
)

// StartCommand starts the root span for a CLI command.
func StartCommand(ctx context.Context, tracer trace.Tracer, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanPrefixCLI+name)
}

// RecordParse annotates span with the outcome of parsing input.
func RecordParse(span trace.Span, input string, doc areaspec.Document, err error) {
	span.SetAttributes(attribute.Int(AttrSpecChars, utf8.RuneCountInString(input)))
	if err != nil {
		RecordError(span, err)
		return
	}
	span.SetAttributes(attribute.Int(AttrSpecAreas, len(doc)))
}

// RecordError marks span failed. Parse errors also record their location.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var perr *areaspec.ParseError
	if errors.As(err, &perr) && !perr.EOF && perr.Line > 0 {
		span.SetAttributes(
			attribute.Int(AttrErrorLine, perr.Line),
			attribute.Int(AttrErrorCol, perr.Col),
		)
	}
}
