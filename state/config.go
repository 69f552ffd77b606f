package state

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// StartupError marks argument/config failures that must terminate the
// process (exit code 1) before any node logic runs.
type StartupError struct {
	msg string
}

func (e *StartupError) Error() string { return e.msg }

func Startupf(format string, args ...any) error {
	return &StartupError{msg: fmt.Sprintf(format, args...)}
}

// LocalCfg holds optional node-local settings, read from a YAML file.
type LocalCfg struct {
	LogPath    string `yaml:"log_path,omitempty"`    // if not empty, logs are also written to this file
	ListenHost string `yaml:"listen_host,omitempty"` // bind address, defaults to 127.0.0.1
	Verbose    bool   `yaml:"verbose,omitempty"`
}

func ReadLocalConfig(path string) (*LocalCfg, error) {
	var cfg LocalCfg
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, Startupf("Error: failed to read local config: %v", err)
	}
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, Startupf("Error: invalid local config: %v", err)
	}
	return &cfg, nil
}

// NodeCfg is the full startup configuration for one node.
type NodeCfg struct {
	Id             NodeId
	Port           uint16
	Neighbours     Row
	RoutingDelay   time.Duration
	UpdateInterval time.Duration
	Local          LocalCfg
}

// ReadNeighbourConfig parses the neighbour table file: the first line is the
// entry count, each following line is "<Neighbour-ID> <Cost> <Port>". The
// line count must match the declared count exactly.
func ReadNeighbourConfig(path string) (Row, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, Startupf("Error: Configuration file %s not found.", path)
	}
	lines := strings.Split(strings.TrimSpace(string(file)), "\n")
	count, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, Startupf("Error: Invalid configuration file format. (First line must be an integer.)")
	}
	if len(lines) != count+1 {
		return nil, Startupf("Error: Invalid configuration file format.")
	}
	neighbours := make(Row, count)
	for _, line := range lines[1:] {
		tokens := strings.Fields(line)
		if len(tokens) != 3 {
			return nil, Startupf("Error: Invalid configuration file format.")
		}
		cost, err := strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			return nil, Startupf("Error: Invalid configuration file format. (Cost must be numeric.)")
		}
		port, err := strconv.ParseUint(tokens[2], 10, 16)
		if err != nil || port == 0 {
			return nil, Startupf("Error: Invalid configuration file format. (Port must be an integer.)")
		}
		neighbours[NodeId(tokens[0])] = Edge{Cost: cost, Port: uint16(port)}
	}
	return neighbours, nil
}
