package observability_test

import (
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stayhub/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveStore("jsonfile", "read", nil)
	observability.ObserveStore("jsonfile", "write", errors.New("disk full"))

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "stayhub_http_requests_total") {
		t.Fatalf("expected stayhub_http_requests_total in output")
	}
	if !strings.Contains(out, "stayhub_store_ops_total") {
		t.Fatalf("expected stayhub_store_ops_total in output")
	}
	if !strings.Contains(out, `result="error"`) {
		t.Fatalf("expected an error-result store sample in output")
	}
}

// The dedicated listener must serve the same registry the API mounts, so the
// namespaced collectors show up on both scrape targets.
func TestServe_ExposesRegisteredCollectors(t *testing.T) {
	reg := observability.InitRegistry()
	observability.ObserveCache("redis", "hit")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	observability.Serve(addr, reg)

	var body []byte
	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err == nil {
			body, _ = io.ReadAll(resp.Body)
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("metrics listener never came up: %v", err)
		}
		time.Sleep(25 * time.Millisecond)
	}
	if !strings.Contains(string(body), "stayhub_cache_events_total") {
		t.Fatalf("dedicated listener missing namespaced collectors:\n%s", body)
	}
}
