package config

import (
	_ "embed"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config carries run defaults resolved from the embedded defaults file
// and the environment. Command line flags take precedence over both.
type Config struct {
	Threshold  float64  // similarity cutoff, inclusive
	Algo       string   // phash or dhash
	Workers    int      // worker pool size for both parallel stages
	Extensions []string // recognized image file extensions
}

type fileDefaults struct {
	Threshold  float64  `yaml:"threshold"`
	Algo       string   `yaml:"algo"`
	Extensions []string `yaml:"extensions"`
}

// Load resolves the configuration. The embedded defaults always parse;
// a broken environment value falls back to the default silently.
func Load() *Config {
	var d fileDefaults
	// The file is compiled in; a parse failure is a build defect.
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		panic("config: invalid embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Threshold:  getEnvFloat("IMAGE_CLUSTER_THRESHOLD", d.Threshold),
		Algo:       getEnv("IMAGE_CLUSTER_ALGO", d.Algo),
		Workers:    getEnvInt("IMAGE_CLUSTER_WORKERS", defaultWorkers()),
		Extensions: d.Extensions,
	}
}

func defaultWorkers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
