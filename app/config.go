package app

import (
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/grafana/dskit/flagext"
	"github.com/grafana/dskit/server"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/zachfi/zkit/pkg/tracing"

	"github.com/zachfi/nowplaying/modules/metadata"
)

type Config struct {
	Target   string          `yaml:"target"`
	LogLevel string          `yaml:"log_level,omitempty"`
	Tracing  tracing.Config  `yaml:"tracing,omitempty"`
	Server   server.Config   `yaml:"server,omitempty"`
	Metadata metadata.Config `yaml:"metadata,omitempty"`
}

const configFileOption = "config.file"

// LoadConfig builds the configuration in three layers: flag defaults, then
// the YAML file named by -config.file, then the remaining command line flags.
// Flags are registered on f and args are parsed by it.
func LoadConfig(args []string, f *flag.FlagSet) (*Config, error) {
	var configFile string

	// Parsing stops at the first unknown flag, so keep dropping arguments
	// until -config.file is found or none are left.
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&configFile, configFileOption, "", "")
	for rest := args; len(rest) > 0; rest = rest[1:] {
		_ = fs.Parse(rest)
	}

	config := &Config{}
	config.RegisterFlagsAndApplyDefaults("", f)

	if configFile != "" {
		filename, _ := filepath.Abs(configFile)
		if err := loadYamlFile(filename, config); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	flagext.IgnoredFlag(f, configFileOption, "Configuration file to load")
	if err := f.Parse(args); err != nil {
		return nil, errors.Wrap(err, "failed to parse flags")
	}

	return config, nil
}

// loadYamlFile strictly unmarshals a YAML file into d.
func loadYamlFile(filename string, d interface{}) error {
	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return yaml.UnmarshalStrict(yamlFile, d)
}

func (c *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&c.Target, "target", All, "Module to run.")
	f.StringVar(&c.LogLevel, "log.level", "info", "Log level: debug, info, warn or error.")

	flagext.DefaultValues(&c.Server)
	f.IntVar(&c.Server.HTTPListenPort, "server.http-listen-port", 3030, "HTTP server listen port.")
	f.IntVar(&c.Server.GRPCListenPort, "server.grpc-listen-port", 9090, "gRPC server listen port.")

	c.Tracing.RegisterFlagsAndApplyDefaults("tracing", f)
	c.Metadata.RegisterFlagsAndApplyDefaults("metadata", f)
}
