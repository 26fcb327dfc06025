package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

func (r *Resolver) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if r == nil {
		return
	}
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "failure"
	}

	contextFields := cloneFields(fields)
	contextFields["event_type"] = operation
	contextFields["status"] = status
	contextFields["duration_ms"] = time.Since(startedAt).Milliseconds()
	if err != nil {
		contextFields["error"] = err.Error()
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	for _, key := range []string{"rule", "branch", "mapping"} {
		if value := strings.TrimSpace(fmt.Sprint(contextFields[key])); value != "" && value != "<nil>" {
			tags[key] = value
		}
	}

	r.recordCounter(ctx, "blocktag."+operation+".total", 1, tags)
	r.recordHistogram(ctx, "blocktag."+operation+".duration_ms", float64(time.Since(startedAt).Milliseconds()), tags)

	if err != nil {
		r.logError(ctx, operation+" failed", contextFields)
		return
	}
	if operation == "resolve_bindings" {
		r.logInfo(ctx, operation+" succeeded", contextFields)
		return
	}
	r.logDebug(ctx, operation+" succeeded", contextFields)
}

func (r *Resolver) logInfo(ctx context.Context, message string, fields map[string]any) {
	r.logWithLevel(ctx, "info", message, fields)
}

func (r *Resolver) logDebug(ctx context.Context, message string, fields map[string]any) {
	r.logWithLevel(ctx, "debug", message, fields)
}

func (r *Resolver) logError(ctx context.Context, message string, fields map[string]any) {
	r.logWithLevel(ctx, "error", message, fields)
}

func (r *Resolver) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if r == nil || r.logger == nil {
		return
	}
	logger := r.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (r *Resolver) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if r == nil || r.metricsRecorder == nil {
		return
	}
	r.metricsRecorder.IncCounter(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func (r *Resolver) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if r == nil || r.metricsRecorder == nil {
		return
	}
	r.metricsRecorder.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
