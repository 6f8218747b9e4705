package metapop

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config carries every configurable constant the engine exposes. Zero
// value is not valid configuration; use Defaults() as a starting point.
type Config struct {
	// MaxCandidates bounds the pending set built during deme closing.
	// -1 (default) means unlimited.
	MaxCandidates int `yaml:"max_candidates" validate:"min=-1"`

	// ReduceAll reduces a candidate tree before evaluation.
	ReduceAll bool `yaml:"reduce_all"`

	// Revisit clears the visited set once when the selector is exhausted,
	// instead of terminating the run.
	Revisit bool `yaml:"revisit"`

	// IncludeDominated, when true, skips the Pareto (dominated) filter.
	IncludeDominated bool `yaml:"include_dominated"`

	// UseDiversityPenalty enables the selector's behavioral-distance
	// diversity term.
	UseDiversityPenalty bool `yaml:"use_diversity_penalty"`

	// ComplexityTemperature is tau, the softmax temperature over weighted
	// scores; also drives UsefulScoreRange = 0.3*tau.
	ComplexityTemperature float64 `yaml:"complexity_temperature" validate:"gt=0"`

	// ComplexityWeight is k in w(C) = s - d - k*c.
	ComplexityWeight float64 `yaml:"complexity_weight" validate:"gte=0"`

	// IgnoreOps names operators the representation builder should never
	// expose as knobs.
	IgnoreOps []string `yaml:"ignore_ops"`

	// Jobs bounds the worker pool used for candidate extraction,
	// behavioral scoring, and the Pareto filter.
	Jobs int `yaml:"jobs" validate:"gte=1"`

	// MinPool is the minimum protected population size (MIN_POOL_SIZE in
	// the MOSES original).
	MinPool int `yaml:"min_pool" validate:"gtefield=Offset"`

	// Offset is the count of leading, elite entries random eviction never
	// touches (OFFSET in the MOSES original).
	Offset int `yaml:"offset" validate:"gte=0"`

	// RandomSeed seeds the engine's RNG, for reproducible runs.
	RandomSeed int64 `yaml:"random_seed"`
}

// Defaults returns the engine's default configuration.
func Defaults() Config {
	return Config{
		MaxCandidates:         -1,
		ReduceAll:             true,
		Revisit:               false,
		IncludeDominated:      true,
		UseDiversityPenalty:   false,
		ComplexityTemperature: 3,
		ComplexityWeight:      0.01,
		IgnoreOps:             nil,
		Jobs:                  1,
		MinPool:               250,
		Offset:                50,
		RandomSeed:            1,
	}
}

// Cap computes the absolute population cap for the given number of
// completed expansions: floor(50*(n+250)*(1+2*exp(-n/500))), the formula
// and constants carried verbatim from the MOSES original.
func (c Config) Cap(nExpansions int) int {
	return capFormula(nExpansions)
}

// Load reads and validates a Config from a YAML file, starting from
// Defaults() so a config file only needs to override what it changes.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces tau > 0, jobs >= 1, MinPool >= Offset, and the generic
// struct-tag rules above.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}
