package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/shutter-rig/internal/rig"
	"github.com/sweeney/shutter-rig/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		TickMs:      1,
		SlowMs:      1000,
		FastMs:      12,
		SettleMs:    20,
		BurstLength: 50,
		ValidateMs:  5,
		SampleMs:    500,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPPort:    ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(rig.StageFastWait, rig.Open, true, 421, 17)
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Stage != "FAST_WAIT" {
		t.Errorf("stage: got %q, want FAST_WAIT", sj.Status.Stage)
	}
	if sj.Status.Commanded != "OPEN" {
		t.Errorf("commanded: got %q, want OPEN", sj.Status.Commanded)
	}
	if sj.Status.Successes != 421 {
		t.Errorf("successes: got %d, want 421", sj.Status.Successes)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("mqtt should report connected")
	}
}

func TestIndexPage(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(rig.StageSlowWait, rig.Closed, false, 12, 0)
	tr.SetSample(rig.Record{
		Time:        time.Date(2026, 1, 1, 0, 0, 30, 0, time.UTC),
		Temperature: 26.1,
		Current:     0.02,
	})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	for _, want := range []string{"Shutter Rig", "SLOW_WAIT", "CLOSED", "26.1", "tcp://192.168.1.200:1883"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "FAULTED") {
		t.Error("healthy rig should not show the fault banner")
	}
}

func TestIndexPageFaultBanner(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetFault(rig.Mismatch{Commanded: rig.Open, Sensed: rig.Closed, Successes: 99})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	if !strings.Contains(page, "FAULTED") {
		t.Error("fault banner missing")
	}
	if !strings.Contains(page, "commanded OPEN, sensed CLOSED") {
		t.Error("fault diagnostic missing from page")
	}
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestShutdown(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	srv := New("127.0.0.1:0", tr)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-done; err != http.ErrServerClosed {
		t.Errorf("Serve returned %v, want ErrServerClosed", err)
	}
}
