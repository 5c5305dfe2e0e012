package config

import (
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"TOKEN_KEY": "secret"})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q; want :8080", cfg.Addr)
	}
	if cfg.Token.Algorithm != "HS512" {
		t.Errorf("Algorithm = %q; want HS512", cfg.Token.Algorithm)
	}
	if cfg.Token.Lifetime != time.Hour {
		t.Errorf("Lifetime = %v; want 1h", cfg.Token.Lifetime)
	}
	if cfg.OIDC.Enabled() {
		t.Error("OIDC should be disabled without an issuer")
	}
}

func TestLoadFromErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing key", map[string]string{}},
		{"blank key", map[string]string{"TOKEN_KEY": "  "}},
		{"asymmetric algorithm", map[string]string{"TOKEN_KEY": "k", "TOKEN_ALGORITHM": "RS256"}},
		{"none algorithm", map[string]string{"TOKEN_KEY": "k", "TOKEN_ALGORITHM": "none"}},
		{"zero lifetime", map[string]string{"TOKEN_KEY": "k", "TOKEN_LIFETIME": "0s"}},
		{"oidc without client", map[string]string{"TOKEN_KEY": "k", "OIDC_ISSUER": "https://id.example.com"}},
		{"bad seed", map[string]string{"TOKEN_KEY": "k", "SEED_USERS": "admin"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFrom(tc.vars); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSeeds(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"TOKEN_KEY":  "k",
		"SEED_USERS": "admin:12345, user1:23:456",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	seeds, err := cfg.Seeds()
	if err != nil {
		t.Fatalf("Seeds: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("expected 2 seeds, got %d", len(seeds))
	}
	if seeds[0] != (SeedUser{Login: "admin", Password: "12345"}) {
		t.Errorf("seeds[0] = %+v", seeds[0])
	}
	if seeds[1] != (SeedUser{Login: "user1", Password: "23:456"}) {
		t.Errorf("seeds[1] = %+v", seeds[1])
	}
}
