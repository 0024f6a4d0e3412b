package observability

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestWriterLogger(t *testing.T) {
	var sb strings.Builder
	log := NewWriterLogger(&sb)

	log.Info("page emitted", Int("page", 3), Float64("height", 792.0))
	out := sb.String()
	if !strings.Contains(out, "INFO page emitted") {
		t.Errorf("missing level/message: %q", out)
	}
	if !strings.Contains(out, "page=3") || !strings.Contains(out, "height=792") {
		t.Errorf("missing fields: %q", out)
	}
}

func TestWriterLoggerWith(t *testing.T) {
	var sb strings.Builder
	log := NewWriterLogger(&sb).With(String("doc", "invoice"))

	log.Debug("shaping", Duration("took", 5*time.Millisecond))
	out := sb.String()
	if !strings.Contains(out, "doc=invoice") {
		t.Errorf("bound field not emitted: %q", out)
	}
	if !strings.Contains(out, "took=5ms") {
		t.Errorf("duration field not emitted: %q", out)
	}
}
