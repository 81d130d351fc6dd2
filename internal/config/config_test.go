package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Economy.DayTicks != 24000 {
		t.Errorf("DayTicks = %d, want default 24000", cfg.Economy.DayTicks)
	}
	if cfg.Server.Addr() != "0.0.0.0:8380" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("economy:\n  day_ticks: 12000\n  black_market_percent: 15\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Economy.DayTicks != 12000 {
		t.Errorf("DayTicks = %d, want 12000", cfg.Economy.DayTicks)
	}
	if cfg.Economy.BlackMarketPercent != 15 {
		t.Errorf("BlackMarketPercent = %d, want 15", cfg.Economy.BlackMarketPercent)
	}
	// Untouched fields keep defaults.
	if cfg.Economy.DriftChancePercent != 30 {
		t.Errorf("DriftChancePercent = %d, want default 30", cfg.Economy.DriftChancePercent)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("economy: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed yaml")
	}
}

func TestClampPercentages(t *testing.T) {
	e := DefaultEconomy()
	e.BlackMarketPercent = 250
	e.DriftChancePercent = -10
	e.SaleDiscountMinPercent = 40
	e.SaleDiscountMaxPercent = 20
	e.BaseSaleChance = 3.0
	e.MaxStockSlots = 0
	e.Clamp()

	if e.BlackMarketPercent != 100 {
		t.Errorf("BlackMarketPercent = %d, want 100", e.BlackMarketPercent)
	}
	if e.DriftChancePercent != 0 {
		t.Errorf("DriftChancePercent = %d, want 0", e.DriftChancePercent)
	}
	if e.SaleDiscountMaxPercent != e.SaleDiscountMinPercent {
		t.Errorf("discount max %d must rise to min %d", e.SaleDiscountMaxPercent, e.SaleDiscountMinPercent)
	}
	if e.BaseSaleChance != 1 {
		t.Errorf("BaseSaleChance = %v, want 1", e.BaseSaleChance)
	}
	if e.MaxStockSlots != 1 {
		t.Errorf("MaxStockSlots = %d, want 1", e.MaxStockSlots)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "trade", SSLMode: "disable"}
	want := "postgres://u:p@db:5432/trade?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
