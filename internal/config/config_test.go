package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Threshold != 0.2 {
		t.Errorf("Threshold = %g; want 0.2", cfg.Threshold)
	}
	if cfg.Algo != "phash" {
		t.Errorf("Algo = %q; want phash", cfg.Algo)
	}
	if cfg.Workers < 1 {
		t.Errorf("Workers = %d; want at least 1", cfg.Workers)
	}
	if len(cfg.Extensions) == 0 {
		t.Fatal("Extensions should not be empty")
	}

	want := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true}
	for _, ext := range cfg.Extensions {
		if !want[ext] {
			t.Errorf("unexpected extension %q", ext)
		}
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IMAGE_CLUSTER_THRESHOLD", "0.5")
	t.Setenv("IMAGE_CLUSTER_ALGO", "dhash")
	t.Setenv("IMAGE_CLUSTER_WORKERS", "3")

	cfg := Load()

	if cfg.Threshold != 0.5 {
		t.Errorf("Threshold = %g; want 0.5", cfg.Threshold)
	}
	if cfg.Algo != "dhash" {
		t.Errorf("Algo = %q; want dhash", cfg.Algo)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d; want 3", cfg.Workers)
	}
}

func TestLoad_BrokenEnvFallsBack(t *testing.T) {
	t.Setenv("IMAGE_CLUSTER_THRESHOLD", "not-a-number")
	t.Setenv("IMAGE_CLUSTER_WORKERS", "lots")

	cfg := Load()

	if cfg.Threshold != 0.2 {
		t.Errorf("Threshold = %g; want default 0.2", cfg.Threshold)
	}
	if cfg.Workers < 1 {
		t.Errorf("Workers = %d; want at least 1", cfg.Workers)
	}
}
