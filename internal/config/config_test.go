package config

import (
	"slices"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SEED_SLOTS", "")
	t.Setenv("OVERSTAY_HOURS", "")
	t.Setenv("AUDIT_SCHEDULE", "")
	t.Setenv("SUMMARY_SCHEDULE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != "mysql" || cfg.Database.Port != "3306" {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Parking.AllBookingsSentinel != "1000" || cfg.Parking.OverstayHours != 24 {
		t.Fatalf("unexpected parking defaults: %+v", cfg.Parking)
	}
	if cfg.Parking.AuditSchedule != "@every 15m" || cfg.Parking.SummarySchedule != "5 0 * * *" {
		t.Fatalf("unexpected schedules: %+v", cfg.Parking)
	}
	if cfg.Redis.Channel != "parking:occupancy" {
		t.Fatalf("unexpected channel %q", cfg.Redis.Channel)
	}
	if !cfg.IsDev() || cfg.GetAllowedOrigins() != "*" {
		t.Fatalf("dev mode should allow every origin")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")
	t.Setenv("SEED_SLOTS", "A1, A2,,B1 ")
	t.Setenv("OVERSTAY_HOURS", "-3")
	t.Setenv("ALL_BOOKINGS_SENTINEL", "everyone")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != "postgres" || cfg.Database.Port != "5432" || cfg.Database.Host != "db.internal" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.JWT.Secret != "prod-secret" {
		t.Fatalf("expected prod jwt secret, got %q", cfg.JWT.Secret)
	}
	if !slices.Equal(cfg.Parking.SeedSlots, []string{"A1", "A2", "B1"}) {
		t.Fatalf("unexpected seed slots %v", cfg.Parking.SeedSlots)
	}
	if cfg.Parking.OverstayHours != 24 {
		t.Fatalf("invalid overstay hours should fall back to 24, got %d", cfg.Parking.OverstayHours)
	}
	if cfg.Parking.AllBookingsSentinel != "everyone" {
		t.Fatalf("unexpected sentinel %q", cfg.Parking.AllBookingsSentinel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		driver  string
		audit   string
		summary string
	}{
		{"bad mode", "staging", "mysql", "", ""},
		{"bad driver", "dev", "oracle", "", ""},
		{"bad audit schedule", "dev", "mysql", "every now and then", ""},
		{"bad summary schedule", "dev", "mysql", "", "61 0 * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_MODE", tt.mode)
			t.Setenv("DB_DRIVER", tt.driver)
			t.Setenv("AUDIT_SCHEDULE", tt.audit)
			t.Setenv("SUMMARY_SCHEDULE", tt.summary)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBuildDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "n"}

	if got := buildDSN(d); got != "u:p@tcp(h:1)/n?charset=utf8mb4&parseTime=True&loc=Local" {
		t.Fatalf("unexpected mysql dsn %q", got)
	}
	if got := buildPostgresDSN(d); got != "host=h port=1 user=u password=p dbname=n sslmode=disable TimeZone=UTC" {
		t.Fatalf("unexpected postgres dsn %q", got)
	}
}
