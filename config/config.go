package config

import (
	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPATH  string `toml:"DBPATH"`
	LogFile string `toml:"LogFile"`
	// media
	MediaDir string `toml:"MediaDir"`
	// speech model
	ModelPath       string `toml:"ModelPath"`
	ModelConfigPath string `toml:"ModelConfigPath"`
	TokenizerPath   string `toml:"TokenizerPath"`
	OnnxLibPath     string `toml:"OnnxLibPath"`
	SampleRate      int    `toml:"SampleRate"` // 0 => read from model config, else 22050
	// synthesis queue
	QueueSize       int `toml:"QueueSize"`
	SynthTimeoutSec int `toml:"SynthTimeoutSec"` // 0 => no per-request timeout
	// http
	ServerPort int `toml:"ServerPort"`
}

func LoadConfig(fn string) (*Config, error) {
	if fn == "" {
		fn = "config.toml"
	}
	config := &Config{}
	_, err := toml.DecodeFile(fn, &config)
	if err != nil {
		return nil, err
	}
	// if any value is empty fill with default
	if config.DBPATH == "" {
		config.DBPATH = "lingoquest.db"
	}
	if config.LogFile == "" {
		config.LogFile = "lingoquest.log"
	}
	if config.MediaDir == "" {
		config.MediaDir = "media"
	}
	if config.QueueSize == 0 {
		config.QueueSize = 256
	}
	if config.ServerPort == 0 {
		config.ServerPort = 3333
	}
	return config, nil
}
