package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if r := tm.Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("empty timer should report nothing: %+v", r)
	}
	load := tm.Begin("load")
	tm.End(load, "graph.json")
	err := tm.Measure("compile", func() error { return errors.New("boom") })
	if err == nil || err.Error() != "boom" {
		t.Fatalf("Measure should pass the error through, got %v", err)
	}
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "load" || r.Phases[1].Note != "failed" {
		t.Fatalf("unexpected report %+v", r)
	}
	sum := tm.Summary()
	for _, want := range []string{"timings:\n", "  load ", "(graph.json)", "(failed)", "  total "} {
		if !strings.Contains(sum, want) {
			t.Fatalf("summary missing %q:\n%s", want, sum)
		}
	}
}
