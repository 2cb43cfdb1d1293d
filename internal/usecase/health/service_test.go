package health

import (
	"context"
	"errors"
	"testing"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(stubPinger{}).
		WithCheck("llm", stubChecker{}).
		WithCheck("search", stubChecker{})

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("status = %q, want %q", report.Status, Healthy)
	}
	for _, name := range []string{"database", "llm", "search"} {
		if report.Checks[name] != CheckOK {
			t.Errorf("%s = %q, want ok", name, report.Checks[name])
		}
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(stubPinger{err: errors.New("connection refused")}).
		WithCheck("llm", stubChecker{})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("database = %q, want error", report.Checks["database"])
	}
	if report.Checks["llm"] != CheckOK {
		t.Errorf("llm = %q, want ok (one failure must not mask the rest)", report.Checks["llm"])
	}
}

func TestCheck_AdapterDown(t *testing.T) {
	svc := New(stubPinger{}).
		WithCheck("search", stubChecker{err: errors.New("api key missing")})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["search"] != CheckError {
		t.Errorf("search = %q, want error", report.Checks["search"])
	}
}

func TestWithCheck_NilIgnored(t *testing.T) {
	svc := New(stubPinger{}).WithCheck("noop", nil)

	report := svc.Check(context.Background())

	if _, ok := report.Checks["noop"]; ok {
		t.Error("nil checker must not be registered")
	}
}
