package metrics

import "testing"

// TestRegistryLocal verifies two Metrics values never share collectors
// and both register cleanly; a shared default registry would panic on
// the second MustRegister.
func TestRegistryLocal(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()
	if a.Registry() == b.Registry() {
		t.Fatal("instances share a registry")
	}

	a.ScansTotal.WithLabelValues(OutcomeApplied).Inc()
	a.ScansTotal.WithLabelValues(OutcomeDegraded).Inc()
	a.SendsTotal.WithLabelValues("ok").Inc()
	a.SlotsLoaded.Set(3)

	families, err := a.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		"unveilctl_scans_total",
		"unveilctl_probe_sends_total",
		"unveilctl_slots_loaded",
	} {
		if !found[name] {
			t.Errorf("metric %s not gathered", name)
		}
	}

	// b stays untouched by a's activity
	bFamilies, err := b.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, f := range bFamilies {
		if f.GetName() == "unveilctl_scans_total" {
			t.Error("fresh registry already carries scan counts")
		}
	}
}
