package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zsiec/tint/internal/logger"
)

// Status represents the health status of a component.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

const checkTimeout = 5 * time.Second

// Check represents a health check result.
type Check struct {
	Name        string                 `json:"name"`
	Status      Status                 `json:"status"`
	Message     string                 `json:"message,omitempty"`
	LastChecked time.Time              `json:"last_checked"`
	Duration    time.Duration          `json:"-"`
	DurationMS  float64                `json:"duration_ms"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Checker is the interface that health checkers must implement.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// DetailsProvider is implemented by checkers that attach extra data to their
// result.
type DetailsProvider interface {
	Details() map[string]interface{}
}

// degradedError marks a failure that leaves the service usable.
type degradedError struct {
	err error
}

func (e *degradedError) Error() string { return e.err.Error() }
func (e *degradedError) Unwrap() error { return e.err }

// Degraded wraps err so the check reports StatusDegraded instead of
// StatusDown.
func Degraded(err error) error {
	if err == nil {
		return nil
	}
	return &degradedError{err: err}
}

// Manager manages health checks.
type Manager struct {
	checkers []Checker
	results  map[string]*Check
	mu       sync.RWMutex
	logger   logger.Logger
}

// NewManager creates a new health check manager.
func NewManager(log logger.Logger) *Manager {
	return &Manager{
		checkers: make([]Checker, 0),
		results:  make(map[string]*Check),
		logger:   logger.WithComponent(log, "health"),
	}
}

// Register adds a new health checker.
func (m *Manager) Register(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
	m.logger.WithField("checker", checker.Name()).Debug("Registered health checker")
}

// RunChecks executes all registered health checks concurrently.
func (m *Manager) RunChecks(ctx context.Context) map[string]*Check {
	m.mu.RLock()
	checkers := make([]Checker, len(m.checkers))
	copy(checkers, m.checkers)
	m.mu.RUnlock()

	var wg sync.WaitGroup
	resultsChan := make(chan *Check, len(checkers))

	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			resultsChan <- m.run(ctx, c)
		}(checker)
	}

	wg.Wait()
	close(resultsChan)

	results := make(map[string]*Check, len(checkers))
	m.mu.Lock()
	for check := range resultsChan {
		results[check.Name] = check
		m.results[check.Name] = check
	}
	m.mu.Unlock()

	return results
}

func (m *Manager) run(ctx context.Context, c Checker) *Check {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := c.Check(checkCtx)
	duration := time.Since(start)

	check := &Check{
		Name:        c.Name(),
		Status:      StatusOK,
		LastChecked: time.Now(),
		Duration:    duration,
		DurationMS:  float64(duration.Milliseconds()),
	}
	if dp, ok := c.(DetailsProvider); ok {
		check.Details = dp.Details()
	}

	log := m.logger.WithFields(logger.Fields{
		"checker":  c.Name(),
		"duration": duration,
	})

	var degraded *degradedError
	switch {
	case err == nil:
		log.Debug("Health check passed")
		return check
	case errors.As(err, &degraded):
		check.Status = StatusDegraded
		check.Message = err.Error()
		log.WithError(err).Warn("Health check degraded")
		return check
	case errors.Is(err, context.DeadlineExceeded):
		check.Message = "Health check timed out"
	default:
		check.Message = err.Error()
	}
	check.Status = StatusDown
	log.WithError(err).Error("Health check failed")
	return check
}

// GetResults returns the latest health check results.
func (m *Manager) GetResults() map[string]*Check {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]*Check, len(m.results))
	for k, v := range m.results {
		checkCopy := *v
		results[k] = &checkCopy
	}
	return results
}

// GetOverallStatus returns the overall system health status.
func (m *Manager) GetOverallStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.results) == 0 {
		return StatusDown
	}

	hasDegraded := false
	for _, check := range m.results {
		switch check.Status {
		case StatusDown:
			return StatusDown
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasDegraded {
		return StatusDegraded
	}
	return StatusOK
}

// StartPeriodicChecks runs all checks every interval until ctx is done.
func (m *Manager) StartPeriodicChecks(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.RunChecks(ctx)

	for {
		select {
		case <-ticker.C:
			m.RunChecks(ctx)
		case <-ctx.Done():
			m.logger.Info("Stopping periodic health checks")
			return
		}
	}
}
