package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Navot-Ram/starwards/pkg/config"
	"github.com/Navot-Ram/starwards/pkg/engine"
	"github.com/Navot-Ram/starwards/pkg/statesync"
)

type failingSink struct{}

func (failingSink) Write(context.Context, *statesync.Frame) error { return errors.New("sink down") }
func (failingSink) Close() error                                   { return nil }

// TestHealthCheckIntegration probes a real simulation loop before, during
// and after Run.
func TestHealthCheckIntegration(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TickRate = 100
	sim, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}

	hc := NewHealthChecker()
	hc.AddCheck(NewSimulationHealthCheck(sim.Running, sim.LastTick, time.Second))

	if st := hc.CheckHealth(context.Background()); st.Status != StatusUnhealthy {
		t.Errorf("before Run: status = %s, want unhealthy", st.Status)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for sim.Ticks() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	w := httptest.NewRecorder()
	hc.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("while running: /ready = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if st := hc.CheckHealth(context.Background()); st.Checks["simulation"].Status != StatusUnhealthy {
		t.Errorf("after Run: simulation = %+v, want unhealthy", st.Checks["simulation"])
	}
}

// TestTelemetryHealthCheckIntegration trips a real publisher breaker.
func TestTelemetryHealthCheckIntegration(t *testing.T) {
	tel := config.DefaultConfig().Telemetry
	tel.Breaker.MaxConsecutiveFails = 2
	pub := statesync.NewPublisher(failingSink{}, tel, nil)

	hc := NewHealthChecker()
	hc.AddCheck(NewTelemetryHealthCheck(pub.State))

	if st := hc.CheckHealth(context.Background()); st.Status != StatusHealthy {
		t.Fatalf("closed breaker: status = %s, want healthy", st.Status)
	}

	for i := uint64(1); i <= 2; i++ {
		_ = pub.Publish(context.Background(), &statesync.Frame{Tick: i})
	}

	st := hc.CheckHealth(context.Background())
	if st.Status != StatusUnhealthy {
		t.Errorf("open breaker: status = %s, want unhealthy", st.Status)
	}
	if st.Checks["telemetry"].Message == "" {
		t.Error("open breaker: telemetry check has no message")
	}
}
