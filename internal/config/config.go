// Package config loads the governor's deployment configuration: every
// controller coefficient, corridor band table, and oracle threshold comes
// from here so no coefficient is hardcoded at a call site.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/beegrid/corridor-governor/internal/corridor"
	"github.com/beegrid/corridor-governor/internal/faults"
	"github.com/beegrid/corridor-governor/internal/kernel"
	"github.com/beegrid/corridor-governor/internal/oracle"
)

// #region types
// Config is the root deployment configuration.
type Config struct {
	StorePath string       `yaml:"store_path"`
	Kernel    KernelConfig `yaml:"kernel"`
	Bands     []BandConfig `yaml:"bands"`
	Oracle    OracleConfig `yaml:"oracle"`
}

// KernelConfig holds the duty-cycle controller coefficients and envelopes.
type KernelConfig struct {
	EtaMass     float64          `yaml:"eta_mass"`
	EtaKarma    float64          `yaml:"eta_karma"`
	EtaGeo      float64          `yaml:"eta_geo"`
	EtaPower    float64          `yaml:"eta_power"`
	EtaCorridor float64          `yaml:"eta_corridor"`
	MassRef     float64          `yaml:"mass_ref"`
	KarmaRef    float64          `yaml:"karma_ref"`
	PhiRef      float64          `yaml:"phi_ref"`
	AlphaZ      float64          `yaml:"alpha_z"`
	BetaS       float64          `yaml:"beta_s"`
	Envelopes   []EnvelopeConfig `yaml:"envelopes"`
}

// EnvelopeConfig bounds one corridor kind for the controller.
type EnvelopeConfig struct {
	Kind string  `yaml:"kind"`
	LMin float64 `yaml:"l_min"`
	LMax float64 `yaml:"l_max"`
}

// BandConfig mirrors corridor.Band for YAML.
type BandConfig struct {
	VarID       string  `yaml:"var_id"`
	Units       string  `yaml:"units"`
	Safe        float64 `yaml:"safe"`
	Gold        float64 `yaml:"gold"`
	Hard        float64 `yaml:"hard"`
	Weight      float64 `yaml:"weight"`
	LyapChannel uint32  `yaml:"lyap_channel"`
	Mandatory   bool    `yaml:"mandatory"`
}

// OracleConfig holds the generic permission gate's bands and threshold.
type OracleConfig struct {
	HardThreshold float64            `yaml:"hard_threshold"`
	Bands         []OracleBandConfig `yaml:"bands"`
}

// OracleBandConfig mirrors oracle.Band for YAML.
type OracleBandConfig struct {
	Kind     string  `yaml:"kind"`
	PosMin   float64 `yaml:"pos_min"`
	PosMax   float64 `yaml:"pos_max"`
	Base     float64 `yaml:"base"`
	NoEffect float64 `yaml:"no_effect"`
}

// #endregion types

// #region default
// Default returns the reference deployment configuration.
func Default() Config {
	p := kernel.DefaultParams()
	return Config{
		StorePath: "governor.db",
		Kernel: KernelConfig{
			EtaMass:     p.EtaMass,
			EtaKarma:    p.EtaKarma,
			EtaGeo:      p.EtaGeo,
			EtaPower:    p.EtaPower,
			EtaCorridor: p.EtaCorridor,
			MassRef:     p.MassRef,
			KarmaRef:    p.KarmaRef,
			PhiRef:      p.PhiRef,
			AlphaZ:      p.AlphaZ,
			BetaS:       p.BetaS,
			Envelopes: []EnvelopeConfig{
				{Kind: string(corridor.KindEMF), LMin: 0, LMax: 1.0},
				{Kind: string(corridor.KindThermal), LMin: 0, LMax: 2.0},
				{Kind: string(corridor.KindAcoustic), LMin: 0, LMax: 60.0},
				{Kind: string(corridor.KindChemical), LMin: 0, LMax: 0.1},
			},
		},
		Bands: []BandConfig{
			{VarID: "hive_temp_c", Units: "C", Safe: 35, Gold: 36, Hard: 38, Weight: 1.0, LyapChannel: 1, Mandatory: true},
			{VarID: "toxin_ppb", Units: "ppb", Safe: 20, Gold: 35, Hard: 50, Weight: 1.5, LyapChannel: 2, Mandatory: true},
			{VarID: "forager_load", Units: "dimensionless", Safe: 0.7, Gold: 0.85, Hard: 1.0, Weight: 0.5, LyapChannel: 3, Mandatory: false},
		},
		Oracle: OracleConfig{
			HardThreshold: 1.0,
			Bands: []OracleBandConfig{
				{Kind: string(corridor.KindRF), PosMin: 0.8, PosMax: 6.0, Base: 0.1, NoEffect: 1.0},
			},
		},
	}
}

// #endregion default

// #region load
// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// #endregion load

// #region builders
// BuildRegistry registers all configured bands into a fresh registry. A
// degenerate band is tolerated (normalization handles it); structural errors
// abort.
func (c Config) BuildRegistry() (*corridor.Registry, error) {
	reg := corridor.NewRegistry()
	for _, b := range c.Bands {
		err := reg.Register(corridor.Band{
			VarID:       b.VarID,
			Units:       b.Units,
			Safe:        b.Safe,
			Gold:        b.Gold,
			Hard:        b.Hard,
			Weight:      b.Weight,
			LyapChannel: b.LyapChannel,
			Mandatory:   b.Mandatory,
		})
		if err != nil {
			var degen *faults.NumericDegenerate
			if errors.As(err, &degen) {
				continue
			}
			return nil, fmt.Errorf("register band %s: %w", b.VarID, err)
		}
	}
	if !reg.ValidateComplete() {
		return nil, &faults.ConfigurationError{Reason: "mandatory corridor bands incomplete"}
	}
	return reg, nil
}

// BuildKernel constructs the duty-cycle controller from the config.
func (c Config) BuildKernel() (*kernel.Kernel, error) {
	envs := make([]kernel.Envelope, 0, len(c.Kernel.Envelopes))
	for _, e := range c.Kernel.Envelopes {
		envs = append(envs, kernel.Envelope{
			Kind: corridor.Kind(e.Kind),
			LMin: e.LMin,
			LMax: e.LMax,
		})
	}
	return kernel.New(envs, kernel.Params{
		EtaMass:     c.Kernel.EtaMass,
		EtaKarma:    c.Kernel.EtaKarma,
		EtaGeo:      c.Kernel.EtaGeo,
		EtaPower:    c.Kernel.EtaPower,
		EtaCorridor: c.Kernel.EtaCorridor,
		MassRef:     c.Kernel.MassRef,
		KarmaRef:    c.Kernel.KarmaRef,
		PhiRef:      c.Kernel.PhiRef,
		AlphaZ:      c.Kernel.AlphaZ,
		BetaS:       c.Kernel.BetaS,
	})
}

// BuildOracle constructs the permission oracle from the config.
func (c Config) BuildOracle() *oracle.Oracle {
	bands := make([]oracle.Band, 0, len(c.Oracle.Bands))
	for _, b := range c.Oracle.Bands {
		bands = append(bands, oracle.Band{
			Kind:     corridor.Kind(b.Kind),
			PosMin:   b.PosMin,
			PosMax:   b.PosMax,
			Base:     b.Base,
			NoEffect: b.NoEffect,
		})
	}
	return oracle.New(c.Oracle.HardThreshold, bands)
}

// #endregion builders
