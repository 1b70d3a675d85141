package main

import (
	"flag"
	"fmt"

	"github.com/spf13/viper"

	"github.com/arnodel/kvjson/extract"
)

const envPrefix = "JSON2TXT"

// Configuration keys set by each flag.
var flagKeys = map[string]string{
	"in":    "input_file",
	"out":   "output_file",
	"mode":  "convert_type",
	"field": "field_to_extract",
	"sort":  "sort_output",
}

// loadConfig layers the configuration: defaults, then the config file if
// configPath is not empty, then the environment, then the flags explicitly
// set on the command line.
func loadConfig(flags *flag.FlagSet, configPath string) (extract.Config, error) {
	v := viper.New()

	defaults := extract.DefaultConfig()
	v.SetDefault("input_file", defaults.InputFile)
	v.SetDefault("output_file", defaults.OutputFile)
	v.SetDefault("convert_type", string(defaults.ConvertType))
	v.SetDefault("field_to_extract", defaults.FieldToExtract)
	v.SetDefault("sort_output", defaults.SortOutput)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return extract.Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	flags.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})

	var cfg extract.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return extract.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
