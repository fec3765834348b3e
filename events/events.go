// Package events defines the hooks the mapper facade runs around each
// full denormalize call. Hooks may rewrite the source map before the
// engine sees it and observe the outcome afterwards; the engine itself
// never knows they exist.
package events

import (
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"remap/errset"
)

// Hook observes and optionally rewrites one denormalize call.
type Hook interface {
	// BeforeDenormalize may return a replacement source map; returning
	// the input unchanged is the common case.
	BeforeDenormalize(src map[string]any) map[string]any

	// AfterDenormalize sees the populated target and the aggregate
	// error, if any.
	AfterDenormalize(out any, err error)
}

// LogHook logs mapping activity through a zap logger.
type LogHook struct {
	log *zap.Logger
}

func NewLogHook(log *zap.Logger) *LogHook {
	return &LogHook{log: log}
}

func (h *LogHook) BeforeDenormalize(src map[string]any) map[string]any {
	h.log.Debug("denormalize start", zap.Int("source_keys", len(src)))

	return src
}

func (h *LogHook) AfterDenormalize(out any, err error) {
	if err == nil {
		h.log.Debug("denormalize done", zap.String("target", fmt.Sprintf("%T", out)))

		return
	}

	fields := []zap.Field{zap.Error(err)}

	var set *errset.Set
	if errors.As(err, &set) {
		fields = append(fields, zap.Strings("failing_paths", set.Paths()))
	}

	h.log.Warn("denormalize failed", fields...)
}

// DebugHook dumps the source map and the mapping outcome to a writer.
// Meant for interactive troubleshooting, not production paths.
type DebugHook struct {
	w io.Writer
}

func NewDebugHook(w io.Writer) *DebugHook {
	return &DebugHook{w: w}
}

func (h *DebugHook) BeforeDenormalize(src map[string]any) map[string]any {
	fmt.Fprintf(h.w, "--- source ---\n%s", spew.Sdump(src))

	return src
}

func (h *DebugHook) AfterDenormalize(out any, err error) {
	if err != nil {
		fmt.Fprintf(h.w, "--- failed ---\n%v\n", err)

		return
	}

	fmt.Fprintf(h.w, "--- result ---\n%s", spew.Sdump(out))
}

// RewriteHook adapts a bare rewrite function into a Hook.
type RewriteHook func(src map[string]any) map[string]any

func (f RewriteHook) BeforeDenormalize(src map[string]any) map[string]any { return f(src) }

func (f RewriteHook) AfterDenormalize(any, error) {}
