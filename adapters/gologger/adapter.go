package gologger

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-blocktag/core"
	glog "github.com/goliatone/go-logger/glog"
)

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// ResolverOptions resolves the logger pair and returns the resolver options that install it.
func ResolverOptions(name string, provider glog.LoggerProvider, logger glog.Logger) []core.Option {
	resolvedProvider, resolvedLogger := Resolve(name, provider, logger)
	return []core.Option{
		core.WithLoggerProvider(resolvedProvider),
		core.WithLogger(resolvedLogger),
	}
}

// PrintFunc is the line sink most plugin hosts expose for their console log.
type PrintFunc func(level string, line string)

// HostLogger forwards glog calls to a host line sink as "msg k=v" lines.
type HostLogger struct {
	print PrintFunc
}

// NewHostLogger returns a nop logger when print is nil.
func NewHostLogger(print PrintFunc) glog.Logger {
	if print == nil {
		return glog.Nop()
	}
	return &HostLogger{print: print}
}

func (l *HostLogger) Trace(msg string, args ...any) { l.emit("TRACE", msg, args) }
func (l *HostLogger) Debug(msg string, args ...any) { l.emit("DEBUG", msg, args) }
func (l *HostLogger) Info(msg string, args ...any)  { l.emit("INFO", msg, args) }
func (l *HostLogger) Warn(msg string, args ...any)  { l.emit("WARN", msg, args) }
func (l *HostLogger) Error(msg string, args ...any) { l.emit("ERROR", msg, args) }

// Fatal is logged at error level; the host decides whether to stop.
func (l *HostLogger) Fatal(msg string, args ...any) { l.emit("ERROR", msg, args) }

// WithContext returns l; host line sinks carry no request context.
func (l *HostLogger) WithContext(context.Context) glog.Logger {
	return l
}

func (l *HostLogger) emit(level string, msg string, args []any) {
	var line strings.Builder
	line.WriteString(msg)
	for idx := 0; idx < len(args); idx += 2 {
		key := fmt.Sprint(args[idx])
		value := any("<missing>")
		if idx+1 < len(args) {
			value = args[idx+1]
		}
		fmt.Fprintf(&line, " %s=%v", key, value)
	}
	l.print(level, line.String())
}
