package sntp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ghodss/yaml"
	"github.com/pelletier/go-toml"
)

// Config is the on-disk configuration shared by the commands. Files ending in
// .toml, .yaml/.yml or .json are decoded as such; anything else is read as
// ntp.conf style directives:
//
//	server pool.ntp.org
//	maxoffset 500
//	timeout 2000
//	nameserver 1.1.1.1
//	port 123
//	localaddress 192.0.2.10
//	noresolve
//	compare
type Config struct {
	Servers          []string `json:"servers" toml:"servers"`
	MaxOffset        int      `json:"max_offset_ms" toml:"max_offset_ms"`
	Timeout          int      `json:"timeout_ms" toml:"timeout_ms"`
	ResolveReference *bool    `json:"resolve_reference" toml:"resolve_reference"`
	Nameserver       string   `json:"nameserver" toml:"nameserver"`
	Port             int      `json:"port" toml:"port"`
	LocalAddress     string   `json:"local_address" toml:"local_address"`
	Compare          bool     `json:"compare" toml:"compare"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".json":
		err = json.Unmarshal(data, config)
	default:
		err = parseDirectives(data, config)
	}
	if err == nil {
		err = config.validate()
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.MaxOffset < 0 {
		return fmt.Errorf("max offset must not be negative, got %d", c.MaxOffset)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Apply copies every set field into opts.
func (c *Config) Apply(opts *Options) {
	if c.MaxOffset > 0 {
		opts.MaxOffset = float64(c.MaxOffset)
	}
	if c.Timeout > 0 {
		opts.Timeout = time.Duration(c.Timeout) * time.Millisecond
	}
	if c.ResolveReference != nil {
		opts.SkipReferenceLookup = !*c.ResolveReference
	}
	if c.Nameserver != "" {
		opts.Nameserver = c.Nameserver
	}
	if c.Port > 0 {
		opts.Port = c.Port
	}
	if c.LocalAddress != "" {
		opts.LocalAddress = c.LocalAddress
	}
}

func parseDirectives(data []byte, config *Config) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		arguments := strings.Fields(scanner.Text())
		if len(arguments) == 0 || strings.HasPrefix(arguments[0], "#") {
			continue
		}

		var err error
		switch arguments[0] {
		case "server":
			var address string
			if address, err = stringArgument(arguments); err == nil {
				config.Servers = append(config.Servers, address)
			}
		case "maxoffset":
			config.MaxOffset, err = integerArgument(arguments)
		case "timeout":
			config.Timeout, err = integerArgument(arguments)
		case "port":
			config.Port, err = integerArgument(arguments)
		case "nameserver":
			config.Nameserver, err = stringArgument(arguments)
		case "localaddress":
			config.LocalAddress, err = stringArgument(arguments)
		case "noresolve":
			resolve := false
			config.ResolveReference = &resolve
		case "compare":
			config.Compare = true
		default:
			err = fmt.Errorf("invalid command %q", arguments[0])
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

func stringArgument(arguments []string) (string, error) {
	if len(arguments) != 2 {
		return "", fmt.Errorf("%s takes exactly one argument", arguments[0])
	}
	return arguments[1], nil
}

func integerArgument(arguments []string) (int, error) {
	value, err := stringArgument(arguments)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s argument requires an integer value", arguments[0])
	}
	return n, nil
}
