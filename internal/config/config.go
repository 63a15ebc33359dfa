// Package config loads network topologies from YAML and builds compiled
// models out of them.
//
// Example topology:
//
//	input_shape: [1, 4]
//	layers:
//	  - name: in
//	    type: lif
//	    n: 4
//	  - name: out
//	    type: lif
//	    n: 4
//	    threshold: 0.5
//	connections:
//	  - name: in_to_out
//	    from: in
//	    to: out
//	    weight_scale: 0.4
//	learning_rules:
//	  - name: hebb
//	    type: hebbian
//	    connection: in_to_out
//	    rate: 0.01
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a declarative network topology.
type Config struct {
	InputShape    []int       `yaml:"input_shape"`
	Layers        []LayerSpec `yaml:"layers"`
	Connections   []ConnSpec  `yaml:"connections"`
	LearningRules []RuleSpec  `yaml:"learning_rules"`
}

// LayerSpec declares one neuron layer.
type LayerSpec struct {
	Name      string  `yaml:"name"`
	Type      string  `yaml:"type"` // "identity" or "lif"
	N         int     `yaml:"n"`
	Decay     float32 `yaml:"decay"`
	Threshold float32 `yaml:"threshold"`
	Reset     float32 `yaml:"reset"`
}

// ConnSpec declares one synapse between two named layers.
type ConnSpec struct {
	Name        string  `yaml:"name"`
	From        string  `yaml:"from"`
	To          string  `yaml:"to"`
	WeightScale float32 `yaml:"weight_scale"`
	Decay       float32 `yaml:"decay"`
}

// RuleSpec declares one learning rule over a named connection.
type RuleSpec struct {
	Name       string  `yaml:"name"`
	Type       string  `yaml:"type"` // "hebbian" or "oja"
	Connection string  `yaml:"connection"`
	Rate       float32 `yaml:"rate"`
}

// Load reads and validates a topology file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML topology.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.InputShape) == 0 {
		return fmt.Errorf("config: input_shape is required")
	}
	for _, dim := range c.InputShape {
		if dim <= 0 {
			return fmt.Errorf("config: input_shape dimensions must be positive, got %v", c.InputShape)
		}
	}
	if len(c.Layers) == 0 {
		return fmt.Errorf("config: at least one layer is required")
	}

	layerNames := make(map[string]bool)
	for i, l := range c.Layers {
		if l.Name == "" {
			return fmt.Errorf("config: layer %d: name is required", i)
		}
		if layerNames[l.Name] {
			return fmt.Errorf("config: duplicate layer name %q", l.Name)
		}
		layerNames[l.Name] = true
		switch l.Type {
		case "identity", "lif":
		default:
			return fmt.Errorf("config: layer %q: unknown type %q", l.Name, l.Type)
		}
		if l.N <= 0 {
			return fmt.Errorf("config: layer %q: n must be positive", l.Name)
		}
	}

	connNames := make(map[string]bool)
	for i, cn := range c.Connections {
		if cn.Name == "" {
			return fmt.Errorf("config: connection %d: name is required", i)
		}
		connNames[cn.Name] = true
		if !layerNames[cn.From] {
			return fmt.Errorf("config: connection %q: unknown from layer %q", cn.Name, cn.From)
		}
		if !layerNames[cn.To] {
			return fmt.Errorf("config: connection %q: unknown to layer %q", cn.Name, cn.To)
		}
	}

	for i, r := range c.LearningRules {
		if r.Name == "" {
			return fmt.Errorf("config: learning rule %d: name is required", i)
		}
		switch r.Type {
		case "hebbian", "oja":
		default:
			return fmt.Errorf("config: learning rule %q: unknown type %q", r.Name, r.Type)
		}
		if !connNames[r.Connection] {
			return fmt.Errorf("config: learning rule %q: unknown connection %q", r.Name, r.Connection)
		}
	}
	return nil
}
