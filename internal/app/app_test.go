package app

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"cardpark/internal/config"
	"cardpark/internal/health"
)

func TestNewAssignsDependencies(t *testing.T) {
	cfg := &config.Config{Profile: config.ProfileDev}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := &http.Server{Addr: ":8080", ReadHeaderTimeout: time.Second}
	readiness := health.NewProbeRunner(100*time.Millisecond, 50*time.Millisecond)
	stopped := false
	stop := func() { stopped = true }

	a := New(cfg, logger, server, nil, readiness, stop)
	if a.Config != cfg || a.Logger != logger || a.Server != server || a.Readiness != readiness {
		t.Fatal("expected app dependencies to be assigned")
	}

	a.StopBackgroundTasks()
	if !stopped {
		t.Fatal("expected stop callback to be invoked")
	}
}

func TestStopBackgroundTasksNilCallback(t *testing.T) {
	a := New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil, nil, nil)
	a.StopBackgroundTasks()
}
