// Package config defines the data structures of an analysis file and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/strac/pkg/strac"
	"github.com/iwvelando/strac/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds one analysis: which STRAC modes to run and their inputs.
type Configuration struct {
	Logging    LoggingConfig     `mapstructure:"logging" yaml:"logging,omitempty" json:"logging,omitempty"`
	Output     OutputConfig      `mapstructure:"output" yaml:"output,omitempty" json:"output,omitempty"`
	Basic      *Values           `mapstructure:"basic" yaml:"basic,omitempty" json:"basic,omitempty"`
	Target     *Values           `mapstructure:"target" yaml:"target,omitempty" json:"target,omitempty"`
	Historical *HistoricalConfig `mapstructure:"historical" yaml:"historical,omitempty" json:"historical,omitempty"`
	Strategy   *StrategyConfig   `mapstructure:"strategy" yaml:"strategy,omitempty" json:"strategy,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty" json:"format,omitempty"`        // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv, json
}

// Values are the five STRAC inputs. A nil field is unset.
type Values struct {
	P *float64 `mapstructure:"p" yaml:"p" json:"p"`
	V *float64 `mapstructure:"v" yaml:"v" json:"v"`
	Q *float64 `mapstructure:"q" yaml:"q" json:"q"`
	F *float64 `mapstructure:"f" yaml:"f" json:"f"`
	G *float64 `mapstructure:"g" yaml:"g" json:"g"`
}

// Input converts the values into engine input, keeping unset fields unset.
func (v Values) Input() strac.Input {
	return strac.Input{
		P: strac.FromPtr(v.P),
		V: strac.FromPtr(v.V),
		Q: strac.FromPtr(v.Q),
		F: strac.FromPtr(v.F),
		G: strac.FromPtr(v.G),
	}
}

// State converts the values into a state, reading unset fields as zero.
func (v Values) State() strac.State {
	in := v.Input()
	return strac.State{P: in.P.Or(0), V: in.V.Or(0), Q: in.Q.Or(0), F: in.F.Or(0), G: in.G.Or(0)}
}

// HistoricalConfig holds the two periods of a historical comparison.
type HistoricalConfig struct {
	Base Values `mapstructure:"base" yaml:"base" json:"base"`
	New  Values `mapstructure:"new" yaml:"new" json:"new"`
}

// StrategyConfig holds the parameters of an MQ strategy sweep. End and Step
// default to 10 and 1 when omitted.
type StrategyConfig struct {
	MQ       float64  `mapstructure:"mq" yaml:"mq" json:"mq"`
	V        float64  `mapstructure:"v" yaml:"v" json:"v"`
	Strategy string   `mapstructure:"strategy" yaml:"strategy" json:"strategy"`
	Start    float64  `mapstructure:"start" yaml:"start" json:"start"`
	End      *float64 `mapstructure:"end" yaml:"end,omitempty" json:"end,omitempty"`
	Step     *float64 `mapstructure:"step" yaml:"step,omitempty" json:"step,omitempty"`
}

const (
	defaultStrategyEnd  = 10.0
	defaultStrategyStep = 1.0
)

// StrategyInput converts the configuration into engine input.
func (s StrategyConfig) StrategyInput() (strac.StrategyInput, error) {
	strategy, err := strac.ParseStrategy(s.Strategy)
	if err != nil {
		return strac.StrategyInput{}, err
	}
	return strac.StrategyInput{
		MQ:       s.MQ,
		V:        s.V,
		Strategy: strategy,
		Start:    s.Start,
		End:      strac.FromPtr(s.End).Or(defaultStrategyEnd),
		Step:     strac.FromPtr(s.Step).Or(defaultStrategyStep),
	}, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	// viper drops empty maps, so "target: {}" never reaches Unmarshal. An
	// empty target section means every target field falls back to the
	// stored value.
	if configuration.Target == nil && v.InConfig("target") {
		configuration.Target = &Values{}
	}

	return &configuration, nil
}

// Empty reports whether no analysis mode is configured.
func (c *Configuration) Empty() bool {
	return c.Basic == nil && c.Target == nil && c.Historical == nil && c.Strategy == nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.AnalysisValidator{
		HasBasic:      c.Basic != nil,
		HasTarget:     c.Target != nil,
		HasHistorical: c.Historical != nil,
	}
	if c.Basic != nil {
		validator.BasicUnset = c.Basic.Input().UnsetCount()
	}
	if c.Strategy != nil {
		validator.HasStrategy = true
		validator.Strategy = c.Strategy.Strategy
		validator.StrategyStep = strac.FromPtr(c.Strategy.Step).Or(defaultStrategyStep)
	}
	return validator.ValidateAll()
}
