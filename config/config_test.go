package config

import "testing"

func TestDSNFromComponents(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: "5433", User: "app", Password: "pw",
		DBName: "classlab", SSLMode: "require",
	}
	want := "postgres://app:pw@db:5433/classlab?sslmode=require"
	if got := c.DSN(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDSNPrefersURL(t *testing.T) {
	c := DatabaseConfig{URL: "postgres://elsewhere/db", Host: "ignored"}
	if got := c.DSN(); got != "postgres://elsewhere/db" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port == "" {
		t.Error("empty default port")
	}
	if cfg.JWT.ExpireHours <= 0 {
		t.Errorf("bad default expiry: %d", cfg.JWT.ExpireHours)
	}
	if len(cfg.WebRTC.ICEUrls) == 0 {
		t.Error("expected a default STUN server")
	}
}

func TestLoadParsesICEUrls(t *testing.T) {
	t.Setenv("WEBRTC_ICE_URLS", "stun:stun.example.com:3478, turn:turn.example.com:3478 ,")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := cfg.WebRTC.ICEUrls
	if len(got) != 2 || got[0] != "stun:stun.example.com:3478" || got[1] != "turn:turn.example.com:3478" {
		t.Fatalf("unexpected ICE urls: %v", got)
	}
}
