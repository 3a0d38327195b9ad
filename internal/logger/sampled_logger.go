package logger

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Log categories used on hot paths.
const (
	CategoryFrameProcessing = "frame_processing"
	CategoryCapsChange      = "caps_change"
	CategoryOverlay         = "overlay"
	CategoryCommands        = "commands"
)

// SampledLogger rate-limits log output per category so per-frame paths
// cannot flood the log. Categories without a sampler always log.
type SampledLogger struct {
	base     Logger
	mu       *sync.RWMutex
	samplers map[string]*sampler
}

type sampler struct {
	limiter *rate.Limiter
	// every n-th message over the limit still gets through, 0 drops all
	every int64

	seen    atomic.Int64
	logged  atomic.Int64
	dropped atomic.Int64
	over    atomic.Int64
}

// SamplerStats holds statistics for a log sampler
type SamplerStats struct {
	Name    string `json:"name"`
	Total   int64  `json:"total"`
	Logged  int64  `json:"logged"`
	Dropped int64  `json:"dropped"`
}

// NewSampledLogger creates a new sampled logger
func NewSampledLogger(base Logger) *SampledLogger {
	return &SampledLogger{
		base:     base,
		mu:       &sync.RWMutex{},
		samplers: make(map[string]*sampler),
	}
}

// WithSampler lets a category log at most once per interval after an initial
// burst. Beyond that, one in every `every` messages is still logged.
func (s *SampledLogger) WithSampler(category string, interval time.Duration, burst int, every int64) *SampledLogger {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samplers[category] = &sampler{
		limiter: rate.NewLimiter(rate.Every(interval), burst),
		every:   every,
	}
	return s
}

func (s *SampledLogger) allow(category string) (*sampler, bool) {
	s.mu.RLock()
	sm, ok := s.samplers[category]
	s.mu.RUnlock()
	if !ok {
		return nil, true
	}

	sm.seen.Add(1)
	if sm.limiter.Allow() {
		sm.logged.Add(1)
		return sm, true
	}
	if sm.every > 0 && sm.over.Add(1)%sm.every == 0 {
		sm.logged.Add(1)
		return sm, true
	}
	sm.dropped.Add(1)
	return sm, false
}

// Sampled logs msg under category if the category's sampler allows it.
// Dropped counts are attached so gaps in the log are visible.
func (s *SampledLogger) Sampled(level logrus.Level, category, msg string, fields Fields) {
	sm, ok := s.allow(category)
	if !ok {
		return
	}
	out := make(Fields, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	out["category"] = category
	if sm != nil {
		out["sampled_dropped"] = sm.dropped.Load()
	}
	s.base.WithFields(out).Log(level, msg)
}

func (s *SampledLogger) DebugWithCategory(category, msg string, fields Fields) {
	s.Sampled(logrus.DebugLevel, category, msg, fields)
}

func (s *SampledLogger) WarnWithCategory(category, msg string, fields Fields) {
	s.Sampled(logrus.WarnLevel, category, msg, fields)
}

// Stats returns a snapshot of every sampler.
func (s *SampledLogger) Stats() map[string]SamplerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]SamplerStats, len(s.samplers))
	for name, sm := range s.samplers {
		stats[name] = SamplerStats{
			Name:    name,
			Total:   sm.seen.Load(),
			Logged:  sm.logged.Load(),
			Dropped: sm.dropped.Load(),
		}
	}
	return stats
}

// NewFrameLogger returns a sampled logger configured for the frame path.
func NewFrameLogger(base Logger) *SampledLogger {
	return NewSampledLogger(base).
		WithSampler(CategoryFrameProcessing, time.Second, 5, 0).
		WithSampler(CategoryOverlay, time.Second, 3, 100).
		WithSampler(CategoryCapsChange, 500*time.Millisecond, 2, 10)
}

func (s *SampledLogger) derive(base Logger) *SampledLogger {
	return &SampledLogger{base: base, mu: s.mu, samplers: s.samplers}
}

func (s *SampledLogger) WithFields(fields map[string]interface{}) Logger {
	return s.derive(s.base.WithFields(fields))
}

func (s *SampledLogger) WithField(key string, value interface{}) Logger {
	return s.derive(s.base.WithField(key, value))
}

func (s *SampledLogger) WithError(err error) Logger {
	return s.derive(s.base.WithError(err))
}

func (s *SampledLogger) Debug(args ...interface{})                   { s.base.Debug(args...) }
func (s *SampledLogger) Info(args ...interface{})                    { s.base.Info(args...) }
func (s *SampledLogger) Warn(args ...interface{})                    { s.base.Warn(args...) }
func (s *SampledLogger) Error(args ...interface{})                   { s.base.Error(args...) }
func (s *SampledLogger) Log(level logrus.Level, args ...interface{}) { s.base.Log(level, args...) }
func (s *SampledLogger) Debugf(format string, args ...interface{})   { s.base.Debugf(format, args...) }
func (s *SampledLogger) Infof(format string, args ...interface{})    { s.base.Infof(format, args...) }
func (s *SampledLogger) Warnf(format string, args ...interface{})    { s.base.Warnf(format, args...) }
func (s *SampledLogger) Errorf(format string, args ...interface{})   { s.base.Errorf(format, args...) }
func (s *SampledLogger) Fatal(args ...interface{})                   { s.base.Fatal(args...) }
