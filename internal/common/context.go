package common

import "context"

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID    contextKey = "request_id"
	ContextKeySubmissionID contextKey = "submission_id"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithSubmissionID adds a submission ID to the context
func WithSubmissionID(ctx context.Context, submissionID string) context.Context {
	return context.WithValue(ctx, ContextKeySubmissionID, submissionID)
}

// SubmissionIDFromContext extracts the submission ID from context
func SubmissionIDFromContext(ctx context.Context) string {
	if submissionID, ok := ctx.Value(ContextKeySubmissionID).(string); ok {
		return submissionID
	}
	return ""
}
