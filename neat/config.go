package neat

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Config stores the configuration of an experiment.
type Config struct {
	Neat   NeatConfig
	Genome GenomeConfig
	Rates  Rates
}

// NeatConfig holds parameters of the population loop that drives the engine.
type NeatConfig struct {
	PopSize           int     `ini:"pop_size"`
	MaxGenerations    int     `ini:"max_generations"`
	FitnessThreshold  float64 `ini:"fitness_threshold"`
	Elitism           int     `ini:"elitism"`
	SurvivalThreshold float64 `ini:"survival_threshold"`
	Workers           int     `ini:"workers"` // 0 means one per CPU
	Seed              int64   `ini:"seed"`
}

// GenomeConfig holds the fixed shape of every genome in a population.
type GenomeConfig struct {
	NumInputs  int `ini:"num_inputs"`
	NumOutputs int `ini:"num_outputs"`
}

// Rates holds mutation probabilities and the parameters of initial wiring.
type Rates struct {
	WeightMutationRate     float64 `ini:"weight_mutation_rate"`
	ActivationMutationRate float64 `ini:"activation_mutation_rate"`
	ConnectionAdditionRate float64 `ini:"connection_addition_rate"`
	NodeAdditionRate       float64 `ini:"node_addition_rate"`
	ToggleConnectionRate   float64 `ini:"toggle_connection_rate"`

	// Initial wiring: MaxStartConnectionCount draws, each kept with
	// probability StartConnectionProbability.
	StartConnectionProbability float64 `ini:"start_connection_probability"`
	MaxStartConnectionCount    int     `ini:"max_start_connection_count"`

	WeightMinValue        float64 `ini:"weight_min_value"`
	WeightMaxValue        float64 `ini:"weight_max_value"`
	AddConnectionAttempts int     `ini:"add_connection_attempts"`

	HiddenActivationName string   `ini:"hidden_activation"`
	OutputActivationName string   `ini:"output_activation"`
	ActivationOptions    []string `ini:"activation_options" delim:" "`

	// Resolved by Validate.
	HiddenActivation Activation   `ini:"-"`
	OutputActivation Activation   `ini:"-"`
	Activations      []Activation `ini:"-"`
}

// DefaultRates returns the rates the training loop uses when no config file is given.
func DefaultRates() *Rates {
	r := &Rates{
		WeightMutationRate:         0.8,
		ActivationMutationRate:     0.1,
		ConnectionAdditionRate:     0.4,
		NodeAdditionRate:           0.2,
		ToggleConnectionRate:       0.05,
		StartConnectionProbability: 0.6,
		MaxStartConnectionCount:    5,
		WeightMinValue:             -1.0,
		WeightMaxValue:             1.0,
		AddConnectionAttempts:      20,
		HiddenActivationName:       "sigmoid",
		OutputActivationName:       "sigmoid",
		ActivationOptions:          []string{"sigmoid", "relu"},
	}
	if err := r.Validate(); err != nil {
		panic(fmt.Sprintf("neat: default rates invalid: %v", err))
	}
	return r
}

// Validate checks value ranges and resolves activation names.
func (r *Rates) Validate() error {
	probs := []struct {
		name string
		v    float64
	}{
		{"weight_mutation_rate", r.WeightMutationRate},
		{"activation_mutation_rate", r.ActivationMutationRate},
		{"connection_addition_rate", r.ConnectionAdditionRate},
		{"node_addition_rate", r.NodeAdditionRate},
		{"toggle_connection_rate", r.ToggleConnectionRate},
		{"start_connection_probability", r.StartConnectionProbability},
	}
	for _, p := range probs {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidRates, p.name)
		}
	}
	if r.MaxStartConnectionCount < 0 {
		return fmt.Errorf("%w: max_start_connection_count cannot be negative", ErrInvalidRates)
	}
	if r.WeightMaxValue < r.WeightMinValue {
		return fmt.Errorf("%w: weight_max_value cannot be less than weight_min_value", ErrInvalidRates)
	}
	if r.AddConnectionAttempts <= 0 {
		return fmt.Errorf("%w: add_connection_attempts must be positive", ErrInvalidRates)
	}

	var err error
	if r.HiddenActivation, err = ParseActivation(r.HiddenActivationName); err != nil {
		return fmt.Errorf("hidden_activation: %w", err)
	}
	if r.OutputActivation, err = ParseActivation(r.OutputActivationName); err != nil {
		return fmt.Errorf("output_activation: %w", err)
	}
	if len(r.ActivationOptions) == 0 {
		return fmt.Errorf("%w: activation_options must be specified", ErrInvalidRates)
	}
	r.Activations = make([]Activation, 0, len(r.ActivationOptions))
	for _, name := range r.ActivationOptions {
		a, err := ParseActivation(name)
		if err != nil {
			return fmt.Errorf("activation_options: %w", err)
		}
		r.Activations = append(r.Activations, a)
	}
	return nil
}

// LoadConfig loads configuration parameters from an INI file.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return mapConfig(cfg)
}

// LoadConfigBytes parses an INI document held in memory.
func LoadConfigBytes(data []byte) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return mapConfig(cfg)
}

func mapConfig(cfg *ini.File) (*Config, error) {
	config := &Config{Rates: *DefaultRates()}

	if err := cfg.Section("NEAT").MapTo(&config.Neat); err != nil {
		return nil, fmt.Errorf("failed to map [NEAT] section: %w", err)
	}
	if err := cfg.Section("DefaultGenome").MapTo(&config.Genome); err != nil {
		return nil, fmt.Errorf("failed to map [DefaultGenome] section: %w", err)
	}
	if err := cfg.Section("MutationRates").MapTo(&config.Rates); err != nil {
		return nil, fmt.Errorf("failed to map [MutationRates] section: %w", err)
	}

	config.Rates.HiddenActivationName = cleanIniString(config.Rates.HiddenActivationName)
	config.Rates.OutputActivationName = cleanIniString(config.Rates.OutputActivationName)
	options := config.Rates.ActivationOptions[:0]
	for _, opt := range config.Rates.ActivationOptions {
		if opt = strings.TrimSpace(opt); opt != "" {
			options = append(options, opt)
		}
	}
	config.Rates.ActivationOptions = options

	if config.Neat.SurvivalThreshold == 0 {
		config.Neat.SurvivalThreshold = 0.2
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if c.Genome.NumInputs <= 0 {
		return fmt.Errorf("config error: num_inputs must be positive")
	}
	if c.Genome.NumOutputs <= 0 {
		return fmt.Errorf("config error: num_outputs must be positive")
	}
	if c.Neat.PopSize < 0 {
		return fmt.Errorf("config error: pop_size cannot be negative")
	}
	if c.Neat.Elitism < 0 || (c.Neat.PopSize > 0 && c.Neat.Elitism > c.Neat.PopSize) {
		return fmt.Errorf("config error: elitism must be between 0 and pop_size")
	}
	if c.Neat.SurvivalThreshold < 0 || c.Neat.SurvivalThreshold > 1 {
		return fmt.Errorf("config error: survival_threshold must be between 0 and 1")
	}
	if c.Neat.Workers < 0 {
		return fmt.Errorf("config error: workers cannot be negative")
	}
	if err := c.Rates.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
