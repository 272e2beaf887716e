package useraccess

import "context"

type ctxKey string

const contextRecordKey ctxKey = "useraccess.record"

// ContextWithRecord attaches the session's resolved access record to the
// request context. Done once by the auth middleware after token validation.
func ContextWithRecord(ctx context.Context, rec *Record) context.Context {
	return context.WithValue(ctx, contextRecordKey, rec)
}

// RecordFromContext returns the resolved record, or nil when the request is
// unauthenticated or resolution has not happened for this request.
func RecordFromContext(ctx context.Context) *Record {
	if ctx == nil {
		return nil
	}
	if rec, ok := ctx.Value(contextRecordKey).(*Record); ok {
		return rec
	}
	return nil
}
