// Package config loads the application configuration: where the data lives
// and the shop-floor topology (lines, machines, selectable tools) plus the
// reason list the entry screen offers. Anything absent from the file gets a
// default, so an empty or missing config still yields a runnable setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Machine is one machine on a line and the tool numbers selectable on it.
type Machine struct {
	Name  string   `yaml:"name"`
	Tools []string `yaml:"tools"`
}

// Line is one production line.
type Line struct {
	Name     string    `yaml:"name"`
	Machines []Machine `yaml:"machines"`
}

// Config is the full application configuration.
type Config struct {
	DataDir      string   `yaml:"data_dir"`
	DatabasePath string   `yaml:"database_path"`
	PartsFile    string   `yaml:"parts_file"`
	ToolsFile    string   `yaml:"tools_file"`
	CostsFile    string   `yaml:"costs_file"`
	UsersFile    string   `yaml:"users_file"`
	ActionsFile  string   `yaml:"actions_file"`
	NCRsFile     string   `yaml:"ncrs_file"`
	Reasons      []string `yaml:"reasons"`
	Lines        []Line   `yaml:"lines"`
}

// Load reads the config at path and fills defaults for anything absent. A
// missing file yields the pure default config; a malformed file is an
// error, since silently ignoring a present config would be worse than
// stopping.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDir, "toollife.db")
	}
	if c.PartsFile == "" {
		c.PartsFile = filepath.Join(c.DataDir, "parts.json")
	}
	if c.ToolsFile == "" {
		c.ToolsFile = filepath.Join(c.DataDir, "tool_config.json")
	}
	if c.CostsFile == "" {
		c.CostsFile = filepath.Join(c.DataDir, "cost_config.json")
	}
	if c.UsersFile == "" {
		c.UsersFile = filepath.Join(c.DataDir, "users.json")
	}
	if c.ActionsFile == "" {
		c.ActionsFile = filepath.Join(c.DataDir, "actions.json")
	}
	if c.NCRsFile == "" {
		c.NCRsFile = filepath.Join(c.DataDir, "ncrs.json")
	}
	if len(c.Reasons) == 0 {
		c.Reasons = []string{
			"Scheduled Change",
			"Tool Worn",
			"Tool Broken",
			"Quality Issue",
			"Setup / Trial",
			"Other",
		}
	}
	if len(c.Lines) == 0 {
		c.Lines = defaultLines()
	}
}

// defaultLines is the shop topology the system shipped with: line U725
// with nine machines sharing one tool list, line JL with eight machines in
// two tool groups plus three finishing (FF) stations.
func defaultLines() []Line {
	u725Tools := numberRange(1, 23)
	u725Tools = append(u725Tools, "60")
	u725 := Line{Name: "U725"}
	for i := 1; i <= 9; i++ {
		u725.Machines = append(u725.Machines, Machine{
			Name:  fmt.Sprintf("Machine %d", i),
			Tools: u725Tools,
		})
	}

	jlFrontTools := []string{"2", "4", "5", "9", "10", "11", "15", "16", "25", "26", "40"}
	jlBackTools := []string{"2", "5", "6", "10", "11", "16", "21", "23", "25", "26", "27", "40"}
	ffTools := numberRange(201, 215)
	ffTools = append(ffTools, "60")

	jl := Line{Name: "JL"}
	for i := 1; i <= 8; i++ {
		tools := jlFrontTools
		if i >= 5 {
			tools = jlBackTools
		}
		jl.Machines = append(jl.Machines, Machine{
			Name:  fmt.Sprintf("Machine %d", i),
			Tools: tools,
		})
	}
	for i := 1; i <= 3; i++ {
		jl.Machines = append(jl.Machines, Machine{
			Name:  fmt.Sprintf("FF%d", i),
			Tools: ffTools,
		})
	}

	return []Line{u725, jl}
}

func numberRange(lo, hi int) []string {
	out := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, fmt.Sprintf("%d", i))
	}
	return out
}

// LineNames returns the configured line names in order.
func (c *Config) LineNames() []string {
	names := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		names = append(names, l.Name)
	}
	return names
}

// MachinesForLine returns the machine names on a line.
func (c *Config) MachinesForLine(line string) []string {
	for _, l := range c.Lines {
		if l.Name == line {
			names := make([]string, 0, len(l.Machines))
			for _, m := range l.Machines {
				names = append(names, m.Name)
			}
			return names
		}
	}
	return nil
}

// ToolsForMachine returns the tool numbers selectable on a machine.
func (c *Config) ToolsForMachine(line, machine string) []string {
	for _, l := range c.Lines {
		if l.Name != line {
			continue
		}
		for _, m := range l.Machines {
			if m.Name == machine {
				return m.Tools
			}
		}
	}
	return nil
}
