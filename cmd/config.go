package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/market-sim/sim"
)

// envPrefix namespaces every environment override.
const envPrefix = "MARKETSIM_"

// seedEnv carries the seed override as text: an unset variable must leave the
// seed unset, which a plain int64 field cannot express.
type seedEnv struct {
	Seed string `env:"RANDOM_SEED"`
}

// loadConfigFile validates the YAML file at path against the CUE schema, then
// decodes it over cfg. Keys absent from the file keep their current values.
func loadConfigFile(path string, cfg *sim.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		logrus.Warnf("Config file %s is empty; using defaults", path)
		return nil
	}
	if err := ValidateWithCue(data); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	// Strict decoding: typos must cause errors
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays MARKETSIM_* variables on cfg. environ replaces the process
// environment when non-nil.
func applyEnv(cfg *sim.Config, environ map[string]string) error {
	opts := env.Options{Prefix: envPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("environment override: %w", firstEnvError(err))
	}

	var s seedEnv
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return fmt.Errorf("environment override: %w", firstEnvError(err))
	}
	if s.Seed != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(s.Seed), 10, 64)
		if err != nil {
			return fmt.Errorf("environment override: %sRANDOM_SEED: %w", envPrefix, err)
		}
		*cfg = cfg.WithSeed(seed)
	}
	return nil
}

// firstEnvError unwraps an aggregate so only the first failure is reported.
func firstEnvError(err error) error {
	var aggErr env.AggregateError
	if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
		return aggErr.Errors[0]
	}
	return err
}

// applyFlags overlays only the flags the user set explicitly, so flag defaults
// never clobber file or environment values.
func applyFlags(cmd *cobra.Command, cfg *sim.Config) {
	flags := cmd.Flags()
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("lambda") {
		cfg.LambdaC = lambdaC
	}
	if flags.Changed("mu") {
		cfg.Mu = mu
	}
	if flags.Changed("k") {
		cfg.K = considerationSize
	}
	if flags.Changed("shifts") {
		cfg.NShifts = nShifts
	}
	if flags.Changed("treatment-prob") {
		cfg.TreatmentProb = treatmentProb
	}
	if flags.Changed("treatment-boost") {
		cfg.TreatmentBoost = treatmentBoost
	}
	if flags.Changed("position-weights") {
		cfg.PositionWeights = append([]float64(nil), positionWeights...)
	}
	if flags.Changed("seed") {
		*cfg = cfg.WithSeed(seed)
	}
}

// buildConfig resolves the run configuration: defaults, then the config file,
// then MARKETSIM_* environment variables, then explicitly set flags. The result
// is validated before it is returned.
func buildConfig(cmd *cobra.Command, configPath string, environ map[string]string) (sim.Config, error) {
	cfg := sim.DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, &cfg); err != nil {
			return sim.Config{}, err
		}
		logrus.Debugf("Loaded config file %s", configPath)
	}
	if err := applyEnv(&cfg, environ); err != nil {
		return sim.Config{}, err
	}
	applyFlags(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}
