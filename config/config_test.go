package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("port %q, want 8080", cfg.ServerPort)
	}
	if cfg.MongoDB != "taskhub" {
		t.Fatalf("db %q, want taskhub", cfg.MongoDB)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("bcrypt cost %d, want 10", cfg.BcryptCost)
	}
	if cfg.Debug {
		t.Fatal("debug must default to off")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != "9090" || !cfg.Debug || cfg.BcryptCost != 4 {
		t.Fatalf("environment not honored: %+v", cfg)
	}
}
