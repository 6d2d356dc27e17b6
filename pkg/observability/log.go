package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, failures at
// warn. It implements all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("trace")}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnLoadStart(_ context.Context, name string) {
	h.logger.Debug("load", "layout", name)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, name string, keyCount int, d time.Duration, err error) {
	h.done("loaded", err, "layout", name, "keys", keyCount, "took", d)
}

func (h *LogHooks) OnNormalizeStart(_ context.Context, name string, keyCount int) {
	h.logger.Debug("normalize", "layout", name, "keys", keyCount)
}

func (h *LogHooks) OnNormalizeComplete(_ context.Context, name string, width, height float64, d time.Duration, err error) {
	h.done("normalized", err, "layout", name, "width", width, "height", height, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, name string, formats []string) {
	h.logger.Debug("render", "layout", name, "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, name string, formats []string, d time.Duration, err error) {
	h.done("rendered", err, "layout", name, "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "format", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "format", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "format", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.logger.Debug("request", "id", requestID, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, requestID, method, path string, status, size int, d time.Duration) {
	kv := []any{"id", requestID, "method", method, "path", path, "status", status, "bytes", size, "took", d}
	if status >= 500 {
		h.logger.Warn("response", kv...)
		return
	}
	h.logger.Debug("response", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
