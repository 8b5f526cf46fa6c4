// Package health serves liveness and readiness probes for a headless
// simulation host.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Status values reported by checks and the aggregate.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck is one probed component.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated readiness report.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the result of a single check.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker runs registered checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker returns an empty checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers check, replacing any check of the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck drops a check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// Names lists the registered checks in order.
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckHealth runs every check. The aggregate is healthy only when all are.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth, len(hc.checks)),
	}
	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: StatusHealthy}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve requests.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler answers 200 when every check passes and 503 otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == StatusHealthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// Mux routes /health and /ready.
func (hc *HealthChecker) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

// SimulationHealthCheck fails when the tick loop is stopped or stalled.
type SimulationHealthCheck struct {
	running  func() bool
	lastTick func() time.Time
	maxAge   time.Duration
	now      func() time.Time
}

// NewSimulationHealthCheck probes a loop expected to tick at least once per maxAge.
func NewSimulationHealthCheck(running func() bool, lastTick func() time.Time, maxAge time.Duration) *SimulationHealthCheck {
	return &SimulationHealthCheck{
		running:  running,
		lastTick: lastTick,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Name returns "simulation".
func (s *SimulationHealthCheck) Name() string {
	return "simulation"
}

// Check verifies the loop runs and ticked recently.
func (s *SimulationHealthCheck) Check(ctx context.Context) error {
	if !s.running() {
		return fmt.Errorf("simulation loop is not running")
	}
	last := s.lastTick()
	if last.IsZero() {
		return fmt.Errorf("simulation has not ticked yet")
	}
	if age := s.now().Sub(last); age > s.maxAge {
		return fmt.Errorf("last tick %s ago exceeds %s", age.Round(time.Millisecond), s.maxAge)
	}
	return nil
}

// TelemetryHealthCheck fails while the state publisher's breaker is open.
type TelemetryHealthCheck struct {
	state func() gobreaker.State
}

// NewTelemetryHealthCheck probes a breaker through its state getter.
func NewTelemetryHealthCheck(state func() gobreaker.State) *TelemetryHealthCheck {
	return &TelemetryHealthCheck{state: state}
}

// Name returns "telemetry".
func (t *TelemetryHealthCheck) Name() string {
	return "telemetry"
}

// Check reports an open breaker. Half-open counts as recovering.
func (t *TelemetryHealthCheck) Check(ctx context.Context) error {
	if st := t.state(); st == gobreaker.StateOpen {
		return fmt.Errorf("telemetry circuit breaker is %s", st)
	}
	return nil
}

// MemoryHealthCheck fails when heap usage exceeds a limit.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck probes memory through getMemoryUsage, in megabytes.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns "memory".
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check compares current usage to the limit.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// CurrentMemoryMB reads the allocated heap in megabytes.
func CurrentMemoryMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
