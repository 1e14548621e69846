package recommend

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Event is telemetry for one Engine operation.
type Event struct {
	Op        string // start, next, generate, accept, retry-pointer
	LearnerID string
	Skill     string
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// Observer receives Engine events.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) Observe(context.Context, Event) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes events to w as slog text records. A nil writer
// yields a NoopObserver.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) Observe(ctx context.Context, ev Event) {
	attrs := make([]any, 0, 8+2*len(ev.Fields))
	attrs = append(attrs,
		"op", ev.Op,
		"learner", ev.LearnerID,
		"skill", ev.Skill,
		"duration_ms", ev.Duration.Milliseconds(),
	)
	for k, v := range ev.Fields {
		attrs = append(attrs, k, v)
	}
	if ev.Err != nil {
		attrs = append(attrs, "error", ev.Err.Error())
		o.logger.ErrorContext(ctx, "recommend", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "recommend", attrs...)
}
