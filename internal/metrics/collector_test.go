package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/rigsim/internal/world"
)

func TestCollector(t *testing.T) {
	c := New()
	h := c.Hooks()

	h.OnLoad("pendulum", 2)
	h.OnStep(world.StepStats{Time: 0.01, Substeps: 10, Elapsed: 3 * time.Millisecond, Bodies: 4})
	h.OnStep(world.StepStats{Time: 0.02, Substeps: 10, Elapsed: 2 * time.Millisecond, Bodies: 4})
	h.OnError(errors.New("diverged"))

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"steps", testutil.ToFloat64(c.steps), 2},
		{"substeps", testutil.ToFloat64(c.substeps), 20},
		{"bodies", testutil.ToFloat64(c.bodies), 4},
		{"loads", testutil.ToFloat64(c.loads), 1},
		{"failures", testutil.ToFloat64(c.failures), 1},
	}
	for _, tt := range checks {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if n := testutil.CollectAndCount(c.duration); n != 1 {
		t.Errorf("duration metrics = %d, want 1", n)
	}
}

func TestHandler(t *testing.T) {
	c := New()
	c.Hooks().OnStep(world.StepStats{Substeps: 5, Bodies: 1})

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "rigsim_steps_total 1") {
		t.Errorf("exposition missing steps counter:\n%s", body)
	}
	if !strings.Contains(string(body), "rigsim_substeps_total 5") {
		t.Errorf("exposition missing substeps counter")
	}
}
