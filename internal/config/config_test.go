package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beegrid/corridor-governor/internal/corridor"
)

func TestDefaultBuilds(t *testing.T) {
	cfg := Default()

	reg, err := cfg.BuildRegistry()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected 3 bands, got %d", reg.Len())
	}
	if !reg.ValidateComplete() {
		t.Fatal("default registry must validate")
	}

	k, err := cfg.BuildKernel()
	if err != nil {
		t.Fatalf("build kernel: %v", err)
	}
	if k == nil {
		t.Fatal("nil kernel")
	}

	o := cfg.BuildOracle()
	if o == nil {
		t.Fatal("nil oracle")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	raw := `
store_path: ""
kernel:
  eta_mass: 0.05
  eta_karma: 0.02
  eta_geo: 0.1
  eta_power: 0.05
  eta_corridor: 0.2
  mass_ref: 1e-6
  karma_ref: 1e9
  phi_ref: 1.0
  alpha_z: 0.05
  beta_s: 0.7
  envelopes:
    - kind: emf
      l_min: 0
      l_max: 1.0
bands:
  - var_id: hive_temp_c
    units: C
    safe: 35
    gold: 36
    hard: 38
    weight: 1.0
    lyap_channel: 1
    mandatory: true
oracle:
  hard_threshold: 1.0
  bands:
    - kind: rf
      pos_min: 0.8
      pos_max: 6.0
      base: 0.1
      no_effect: 1.0
`
	path := filepath.Join(t.TempDir(), "governor.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Bands) != 1 || cfg.Bands[0].VarID != "hive_temp_c" {
		t.Fatalf("unexpected bands: %+v", cfg.Bands)
	}
	if cfg.Kernel.BetaS != 0.7 {
		t.Fatalf("expected beta_s 0.7, got %v", cfg.Kernel.BetaS)
	}

	reg, err := cfg.BuildRegistry()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	b, ok := reg.Lookup("hive_temp_c")
	if !ok {
		t.Fatal("band missing after build")
	}
	if b.Hard != 38 || !b.Mandatory {
		t.Fatalf("band fields lost: %+v", b)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("bands: [not: closed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBuildRegistryRejectsMalformedBand(t *testing.T) {
	cfg := Default()
	cfg.Bands[0].Safe = 40 // safe above gold

	if _, err := cfg.BuildRegistry(); err == nil {
		t.Fatal("expected structural band error")
	}
}

func TestBuildRegistryToleratesDegenerateBand(t *testing.T) {
	cfg := Default()
	cfg.Bands = append(cfg.Bands, BandConfig{
		VarID: "flat", Safe: 5, Gold: 5, Hard: 5, Weight: 1.0,
	})

	reg, err := cfg.BuildRegistry()
	if err != nil {
		t.Fatalf("degenerate band must not abort the build: %v", err)
	}
	if _, ok := reg.Lookup("flat"); !ok {
		t.Fatal("degenerate band should still be registered")
	}
}

func TestBuildRegistryRequiresMandatoryBands(t *testing.T) {
	cfg := Default()
	cfg.Bands = []BandConfig{
		{VarID: "only_optional", Safe: 1, Gold: 2, Hard: 3, Weight: 1.0, Mandatory: false},
	}
	// An optional-only table still validates; completeness binds mandatory
	// bands. Break one explicitly.
	if _, err := cfg.BuildRegistry(); err != nil {
		t.Fatalf("optional-only table should build: %v", err)
	}

	cfg.Bands = []BandConfig{
		{VarID: "broken", Safe: 0, Gold: 0, Hard: 0, Weight: 1.0, Mandatory: true},
	}
	if _, err := cfg.BuildRegistry(); err == nil {
		t.Fatal("mandatory band with hard == 0 must fail completeness")
	}
}

func TestDefaultOracleGatesRF(t *testing.T) {
	o := Default().BuildOracle()
	// A reading just under the no-effect level stays permitted.
	if !o.Permit(corridor.KindRF, nil) {
		t.Fatal("no measurements should permit")
	}
}
