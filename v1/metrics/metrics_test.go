package metrics

import "testing"

func TestRegisterCoreMetrics(t *testing.T) {
	reg := NewRegistry()
	RegisterCoreMetrics(reg)

	ElectionWonCounter.Inc()
	RunOutcomeCounter.WithLabelValues("LEADER_SUCCESS").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{"elect_elections_won_total", "elect_runs_total"} {
		if !found[name] {
			t.Fatalf("metric %s not registered", name)
		}
	}
}
