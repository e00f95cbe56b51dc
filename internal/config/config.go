/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CTFAN project.
 *
 * CTFAN is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pborman/getopt/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/antst/ctfan/internal/logger"
)

const (
	defaultMQTTURL      = "tcp://127.0.0.1:1883"
	defaultControlTopic = "ctfan/control"
	defaultDBFile       = "~/.ctfan.db"
	defaultConfigFile   = "config.yaml"
	defaultLogEncoding  = "console"
	DefaultAverageType  = "mean"
)

type Config struct {
	LogLevel    zapcore.Level  `yaml:"log_level"`
	LogEncoding string         `yaml:"log_encoding"`
	MQTTConfig  *MQTTConfig    `yaml:"mqtt"`
	DBFile      string         `yaml:"db_file"`
	Workers     *int           `yaml:"workers"`
	Solver      *SolverConfig  `yaml:"solver"`
	Ambient     *AmbientConfig `yaml:"ambient"`
}

// Args are the command line selections that are not part of the config file.
type Args struct {
	ConfigFile string
	CaseFile   string
	BatchFile  string
	OutFile    string
	Service    bool
}

func defConfig() *Config {
	return &Config{
		LogEncoding: defaultLogEncoding,
		MQTTConfig:  NewMQTTConfig(),
		DBFile:      defaultDBFile,
		Solver:      NewSolverConfig(),
		Ambient:     NewAmbientConfig(),
	}
}

func GetPTR[T any](v T) *T {
	return &v
}

func prettyPrint(cfg *Config) {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		logger.L().Error("Failed to marshal config for pretty print", err)
		return
	}
	logger.L().Debugf("--- Config ---\n%s\n\n", string(d))
}

func (cfg *Config) FillDefaults() {
	if cfg.MQTTConfig == nil {
		cfg.MQTTConfig = NewMQTTConfig()
	}
	cfg.MQTTConfig.FillDefaults()
	if cfg.Solver == nil {
		cfg.Solver = NewSolverConfig()
	}
	cfg.Solver.FillDefaults()
	if cfg.Ambient == nil {
		cfg.Ambient = NewAmbientConfig()
	}
	cfg.Ambient.FillDefaults()

	if cfg.Workers == nil || *cfg.Workers < 1 {
		cfg.Workers = GetPTR(4)
	}
	if cfg.LogEncoding == "" {
		cfg.LogEncoding = defaultLogEncoding
	}
	if cfg.DBFile == "" {
		cfg.DBFile = defaultDBFile
	}
	cfg.DBFile = expandHome(cfg.DBFile)
}

// Get parses the command line, reads the config file it names and applies the flag
// overrides. It exits on -h.
func Get() (*Config, *Args, error) {
	cfg := defConfig()
	args := &Args{}

	helpFlag := false
	getopt.Flag(&helpFlag, 'h', "display help")
	logLevel := getopt.StringLong("log-level", 'l', "", "log levels: debug, info, warn, error, dpanic, panic, fatal")
	configFile := getopt.StringLong("config", 'c', defaultConfigFile, "config file pathname")
	dbFile := getopt.StringLong("db", 'd', "", "DB file pathname")
	getopt.FlagLong(&args.CaseFile, "input", 'i', "design case (YAML) to solve")
	getopt.FlagLong(&args.BatchFile, "batch", 'b', "CSV file of design cases to solve")
	getopt.FlagLong(&args.OutFile, "output", 'o', "CSV file for batch results (default stdout)")
	getopt.FlagLong(&args.Service, "service", 's', "run the MQTT sizing service")

	getopt.Parse()
	if helpFlag {
		getopt.Usage()
		os.Exit(0)
	}
	args.ConfigFile = *configFile

	if err := readFile(cfg, *configFile); err != nil {
		return nil, nil, err
	}
	logger.L().Infof("Using config file `%v`", *configFile)

	if *dbFile != "" {
		cfg.DBFile = *dbFile
	}
	cfg.FillDefaults()
	logger.L().Infof("Using DB file `%v`", cfg.DBFile)

	if *logLevel != "" {
		if err := cfg.LogLevel.Set(*logLevel); err != nil {
			logger.L().Errorf("Wrong log level `%v`: %v", *logLevel, err)
		}
	}
	if err := logger.Setup(cfg.LogEncoding); err != nil {
		logger.L().Errorf("Keeping the console logger: %v", err)
	}
	logger.SetLogLevel(cfg.LogLevel)

	prettyPrint(cfg)

	return cfg, args, nil
}

// Load reads a config file without touching the command line.
func Load(configFileName string) (*Config, error) {
	cfg := defConfig()
	if err := readFile(cfg, configFileName); err != nil {
		return nil, err
	}
	cfg.FillDefaults()
	return cfg, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func readFile(cfg *Config, configFileName string) error {
	if !fileExists(configFileName) {
		return nil
	}

	f, err := os.Open(configFileName)
	if err != nil {
		return errors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "failed to read config file")
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.Wrap(err, "failed to unmarshal config")
		}
	}

	return nil
}
