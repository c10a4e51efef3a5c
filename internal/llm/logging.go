package llm

import (
	"context"
	"time"

	"github.com/abhisek/vocabz/internal/logger"
)

// LoggingProvider logs one line per request with purpose, latency and
// token counts.
type LoggingProvider struct {
	inner Provider
	log   *logger.Logger
}

// WithLogging wraps p with request logging.
func WithLogging(p Provider, log *logger.Logger) Provider {
	return &LoggingProvider{inner: p, log: log.WithPrefix("llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	ms := time.Since(start).Milliseconds()

	log := l.log.WithField("purpose", PurposeFrom(ctx)).WithField("model", l.inner.ModelID())
	if err != nil {
		log.Warn("request failed after %dms: %v", ms, err)
		return nil, err
	}
	log.Debug("request ok in %dms: %d in / %d out tokens", ms, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// UsageRecorder receives the token usage of every successful request
// together with the model id that served it.
type UsageRecorder interface {
	TrackUsage(model string, u Usage)
}

// UsageProvider forwards reply usage to a UsageRecorder.
type UsageProvider struct {
	inner    Provider
	recorder UsageRecorder
}

// WithUsage wraps p so every successful reply's usage reaches rec. Usage is
// attributed to p.ModelID(), the resolved id the price table is keyed by.
func WithUsage(p Provider, rec UsageRecorder) Provider {
	return &UsageProvider{inner: p, recorder: rec}
}

func (u *UsageProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := u.inner.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	u.recorder.TrackUsage(u.inner.ModelID(), resp.Usage)
	return resp, nil
}

func (u *UsageProvider) ModelID() string {
	return u.inner.ModelID()
}
