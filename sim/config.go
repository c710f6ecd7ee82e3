package sim

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds every parameter of a marketplace simulation run.
// The yaml tags name the config-file keys, the env tags the environment
// overrides (applied with a MARKETSIM_ prefix by the CLI).
type Config struct {
	Horizon int     `yaml:"horizon" env:"HORIZON" validate:"gt=0"`           // simulation time steps
	LambdaC float64 `yaml:"lambda_c" env:"LAMBDA_C" validate:"finite,gte=0"` // nurse arrivals per step (Poisson mean)
	Mu      float64 `yaml:"mu" env:"MU" validate:"finite,gt=0"`              // shift reopening rate

	K       int `yaml:"k" env:"K" validate:"gt=0"`               // consideration set size
	NShifts int `yaml:"n_shifts" env:"N_SHIFTS" validate:"gt=0"` // shift population

	TreatmentProb  float64 `yaml:"treatment_prob" env:"TREATMENT_PROB" validate:"gte=0,lte=1"` // P(shift is treated)
	TreatmentBoost float64 `yaml:"treatment_boost" env:"TREATMENT_BOOST" validate:"finite"`    // utility added to treated shifts

	// Per-rank multiplicative discount of the choice model; rank i uses PositionWeights[i].
	PositionWeights []float64 `yaml:"position_weights" env:"POSITION_WEIGHTS" envSeparator:"," validate:"required,min=1,dive,finite,gte=0"`

	// Optional seed. nil means a fresh key is drawn for the run.
	RandomSeed *int64 `yaml:"random_seed" env:"-"`
}

// DefaultConfig returns the baseline market used when no file or flag overrides a field.
func DefaultConfig() Config {
	return Config{
		Horizon:         1000,
		LambdaC:         0.5,
		Mu:              1.0,
		K:               5,
		NShifts:         20,
		TreatmentProb:   0.5,
		TreatmentBoost:  0.0,
		PositionWeights: []float64{1.0, 0.8, 0.6, 0.4, 0.2},
	}
}

// WithSeed returns a copy of c with RandomSeed set.
func (c Config) WithSeed(seed int64) Config {
	c.RandomSeed = &seed
	return c
}

// Clone returns a deep copy of c; the weights slice and seed are not shared.
func (c Config) Clone() Config {
	out := c
	out.PositionWeights = append([]float64(nil), c.PositionWeights...)
	if c.RandomSeed != nil {
		seed := *c.RandomSeed
		out.RandomSeed = &seed
	}
	return out
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report yaml key names so errors match what the user wrote.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		}
		return true
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate rejects out-of-range parameters. It reports the first failing
// field with its config key, the rule it broke and the offending value.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}
	fe := verrs[0]
	return fmt.Errorf("invalid config: %s %s (got %v)", fieldPath(fe), describeRule(fe), fe.Value())
}

// fieldPath strips the struct name from the namespace: "Config.position_weights[2]" -> "position_weights[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "finite":
		return "must be a finite number"
	case "required", "min":
		return "must not be empty"
	default:
		return "failed rule " + fe.Tag()
	}
}
