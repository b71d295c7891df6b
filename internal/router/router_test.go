package router

import (
	"strings"
	"testing"

	"github.com/beegrid/corridor-governor/internal/corridor"
	"github.com/beegrid/corridor-governor/internal/hive"
	"github.com/beegrid/corridor-governor/internal/ledger"
)

func testRegistry(t *testing.T) *corridor.Registry {
	t.Helper()
	reg := corridor.NewRegistry()
	err := reg.Register(corridor.Band{
		VarID: "hive_temp_c", Safe: 35, Gold: 36, Hard: 38, Weight: 1, Mandatory: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func envelope(hiveID string, band hive.Band) hive.Envelope {
	env := hive.Envelope{
		HiveID:          hiveID,
		TemperatureC:    34.0,
		ToxinPpb:        20.0,
		ForageDiversity: 0.8,
		ForageRadiusM:   1500.0,
		EcoImpactScore:  75.0,
		Bounds: hive.SafeBounds{
			TemperatureCMin:    32.0,
			TemperatureCMax:    36.0,
			ToxinPpbMax:        50.0,
			ForageDiversityMin: 0.5,
			ForageRadiusMMin:   1000.0,
		},
	}
	switch band {
	case hive.BandWarning:
		env.ToxinPpb = 60.0
	case hive.BandCritical:
		env.TemperatureC = 40.0
		env.ToxinPpb = 60.0
		env.ForageDiversity = 0.1
		env.ForageRadiusM = 500.0
	}
	return env
}

func admit(t *testing.T, l *ledger.Ledger, envs ...hive.Envelope) {
	t.Helper()
	reg := testRegistry(t)
	for _, env := range envs {
		if err := l.Admit(env, reg); err != nil {
			t.Fatalf("admit %s: %v", env.HiveID, err)
		}
	}
}

func TestRoutePrefersWorseBands(t *testing.T) {
	l := ledger.NewLedger()
	admit(t, l,
		envelope("hive-safe", hive.BandSafe),
		envelope("hive-warning", hive.BandWarning),
	)
	r := New(l)

	results := r.Route([]Task{{ID: "t1", Kind: TaskSprayReduction}})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Accepted {
		t.Fatalf("task should be accepted, got reason %q", results[0].Reason)
	}
	if results[0].HiveID != "hive-warning" {
		t.Fatalf("expected the warning hive first, got %s", results[0].HiveID)
	}
}

func TestRouteFallsThroughOnRejection(t *testing.T) {
	l := ledger.NewLedger()
	// The critical hive's forage radius (500) stays below its minimum (1000)
	// even after wildflowers add 200 m, so its ledger rejects the task and
	// the router must fall through to the safe hive.
	admit(t, l,
		envelope("hive-critical", hive.BandCritical),
		envelope("hive-safe", hive.BandSafe),
	)
	r := New(l)

	results := r.Route([]Task{{ID: "t1", Kind: TaskPlantWildflowers}})
	if !results[0].Accepted {
		t.Fatalf("task should land on the fallback hive, got %q", results[0].Reason)
	}
	if results[0].HiveID != "hive-safe" {
		t.Fatalf("expected hive-safe after fallthrough, got %s", results[0].HiveID)
	}
}

func TestRouteAllRejectedKeepsFirstReason(t *testing.T) {
	l := ledger.NewLedger()
	admit(t, l, envelope("hive-critical", hive.BandCritical))
	r := New(l)

	results := r.Route([]Task{{ID: "t1", Kind: TaskPlantWildflowers}})
	if results[0].Accepted {
		t.Fatal("task must not be accepted anywhere")
	}
	if results[0].HiveID != "hive-critical" {
		t.Fatalf("result should name the first rejecting hive, got %s", results[0].HiveID)
	}
	if !strings.Contains(results[0].Reason, "rejected") {
		t.Fatalf("reason should carry the rejection, got %q", results[0].Reason)
	}
}

func TestRouteNoGovernedHives(t *testing.T) {
	r := New(ledger.NewLedger())
	results := r.Route([]Task{{ID: "t1", Kind: TaskDimLights}})
	if results[0].Accepted {
		t.Fatal("nothing to accept the task")
	}
	if results[0].Reason != "no governed hives" {
		t.Fatalf("unexpected reason %q", results[0].Reason)
	}
}

func TestRouteBreaksBandTiesByEcoScore(t *testing.T) {
	l := ledger.NewLedger()
	rich := envelope("hive-rich", hive.BandSafe)
	rich.ToxinPpb = 5.0
	rich.ForageDiversity = 0.9
	rich.ForageRadiusM = 2000.0
	poor := envelope("hive-poor", hive.BandSafe)
	poor.ToxinPpb = 45.0
	poor.ForageDiversity = 0.55
	poor.ForageRadiusM = 1100.0
	admit(t, l, rich, poor)
	r := New(l)

	// Both hives classify safe; the poorer composite eco score must be
	// tried (and accepted) first.
	results := r.Route([]Task{{ID: "t1", Kind: TaskAdjustIrrigation}})
	if !results[0].Accepted {
		t.Fatalf("irrigation should be accepted, got %q", results[0].Reason)
	}
	if results[0].HiveID != "hive-poor" {
		t.Fatalf("expected the lower-scored hive first, got %s", results[0].HiveID)
	}
	if results[0].EcoScore <= 0 || results[0].EcoScore >= 100 {
		t.Fatalf("result should surface the hive's eco score, got %v", results[0].EcoScore)
	}
}

func TestRouteAppliesTemplateEffects(t *testing.T) {
	l := ledger.NewLedger()
	admit(t, l, envelope("hive-a", hive.BandSafe))
	r := New(l)

	results := r.Route([]Task{{ID: "t1", Kind: TaskSprayReduction}})
	if !results[0].Accepted {
		t.Fatalf("spray reduction should be accepted, got %q", results[0].Reason)
	}
	env, ok := l.Envelope("hive-a")
	if !ok {
		t.Fatal("envelope missing")
	}
	if env.ToxinPpb != 10.0 {
		t.Fatalf("expected toxin reduced to 10, got %v", env.ToxinPpb)
	}
	if env.EcoImpactScore != 80.0 {
		t.Fatalf("expected eco score 80, got %v", env.EcoImpactScore)
	}
}
