package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/repair-reserve/internal/reserve"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", "config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Inputs.Mode != reserve.ModeRate {
		t.Errorf("Inputs.Mode = %q, expected rate", conf.Inputs.Mode)
	}
	if conf.Inputs.TotalRepairCost != 10_000_000_000 || conf.Inputs.AccumulationRate != 20 {
		t.Errorf("unexpected cost inputs %+v", conf.Inputs)
	}
	if conf.Inputs.HouseholdArea != 84.9 || conf.Inputs.TotalComplexArea != 150_000 {
		t.Errorf("unexpected areas %+v", conf.Inputs)
	}
	if conf.Logging.Format != "console" || conf.Output.Format != "pretty" {
		t.Errorf("unexpected logging/output %+v %+v", conf.Logging, conf.Output)
	}
	if conf.Lookup.Model != "gpt-4o-mini" || conf.Lookup.CacheTTL != "24h" {
		t.Errorf("unexpected lookup config %+v", conf.Lookup)
	}
	if conf.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q", conf.Cache.Backend)
	}

	warnings, err := conf.ValidateConfiguration()
	if err != nil {
		t.Fatalf("ValidateConfiguration() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings %v", warnings)
	}

	in := conf.InitialInputs(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	res, ok := reserve.Calculate(in)
	if !ok {
		t.Fatal("example inputs should be computable")
	}
	if res.PeriodTargetAmount != 2_000_000_000 {
		t.Errorf("PeriodTargetAmount = %v", res.PeriodTargetAmount)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(`
inputs:
  mode: amount
  periodAmount: 2000000000
  durationMonths: 60
  totalComplexArea: 150000
  householdArea: 84.9
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Inputs.Mode != reserve.ModeAmount || conf.Inputs.PeriodAmount != 2_000_000_000 {
		t.Errorf("unexpected inputs %+v", conf.Inputs)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("inputs: [unclosed")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestInitialInputs(t *testing.T) {
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		inputs        reserve.Inputs
		expectedStart int
		expectedEnd   int
		expectedMonth int
		expectedMode  reserve.Mode
	}{
		{
			name:          "empty inputs use defaults",
			inputs:        reserve.Inputs{},
			expectedStart: 2026, expectedEnd: 2030, expectedMonth: 60,
			expectedMode: reserve.ModeRate,
		},
		{
			name:          "duration drives end year",
			inputs:        reserve.Inputs{DurationMonths: 65, StartYear: 2025, EndYear: 2040},
			expectedStart: 2025, expectedEnd: 2029, expectedMonth: 65,
			expectedMode: reserve.ModeRate,
		},
		{
			name:          "range mode drives duration",
			inputs:        reserve.Inputs{Mode: reserve.ModeAmount, PeriodInputMode: reserve.PeriodRange, DurationMonths: 10, StartYear: 2025, EndYear: 2030},
			expectedStart: 2025, expectedEnd: 2030, expectedMonth: 72,
			expectedMode: reserve.ModeAmount,
		},
		{
			name:          "inverted range collapses",
			inputs:        reserve.Inputs{PeriodInputMode: reserve.PeriodRange, StartYear: 2030, EndYear: 2025},
			expectedStart: 2025, expectedEnd: 2025, expectedMonth: 12,
			expectedMode: reserve.ModeRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &Configuration{Inputs: tt.inputs}
			in := conf.InitialInputs(now)
			if in.StartYear != tt.expectedStart || in.EndYear != tt.expectedEnd || in.DurationMonths != tt.expectedMonth {
				t.Errorf("period = %d..%d (%d months), expected %d..%d (%d months)",
					in.StartYear, in.EndYear, in.DurationMonths, tt.expectedStart, tt.expectedEnd, tt.expectedMonth)
			}
			if in.Mode != tt.expectedMode {
				t.Errorf("Mode = %q, expected %q", in.Mode, tt.expectedMode)
			}
			if in.StartYear > in.EndYear {
				t.Errorf("range inverted %d..%d", in.StartYear, in.EndYear)
			}
		})
	}
}

func TestInitialInputsClampsNegativeValues(t *testing.T) {
	conf := &Configuration{Inputs: reserve.Inputs{TotalRepairCost: -1, HouseholdArea: -84.9}}
	in := conf.InitialInputs(time.Now())
	if in.TotalRepairCost != 0 || in.HouseholdArea != 0 {
		t.Errorf("expected negative values clamped, got %+v", in)
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name         string
		yaml         string
		wantErr      bool
		wantWarnings int
	}{
		{"minimal", "inputs:\n  durationMonths: 60\n", false, 0},
		{"unknown mode warns", "inputs:\n  mode: percent\n", false, 1},
		{"unknown period mode warns", "inputs:\n  periodInputMode: weeks\n", false, 1},
		{"inverted range warns", "inputs:\n  startYear: 2030\n  endYear: 2025\n", false, 1},
		{"bad output format", "output:\n  format: pdf\n", true, 0},
		{"bad timeout", "advisor:\n  timeout: soon\n", true, 0},
		{"bad cache ttl", "lookup:\n  cacheTTL: forever\n", true, 0},
		{"redis without address", "cache:\n  backend: redis\n", true, 0},
		{"unknown cache backend", "cache:\n  backend: memcached\n", true, 0},
		{"redis with address", "cache:\n  backend: redis\n  address: 127.0.0.1:6379\n", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfiguration(writeConfig(t, tt.yaml))
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			warnings, err := conf.ValidateConfiguration()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateConfiguration() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("expected %d warnings, got %v", tt.wantWarnings, warnings)
			}
		})
	}
}

func TestLookupCacheTTL(t *testing.T) {
	conf := &Configuration{}
	if conf.LookupCacheTTL() != 24*time.Hour {
		t.Errorf("default TTL = %v", conf.LookupCacheTTL())
	}
	conf.Lookup.CacheTTL = "90m"
	if conf.LookupCacheTTL() != 90*time.Minute {
		t.Errorf("TTL = %v", conf.LookupCacheTTL())
	}
	conf.Lookup.CacheTTL = "garbage"
	if conf.LookupCacheTTL() != 24*time.Hour {
		t.Errorf("invalid TTL should fall back, got %v", conf.LookupCacheTTL())
	}
}

func TestBuildServicesWithoutKeys(t *testing.T) {
	conf := &Configuration{}
	conf.Advisor.APIKeyEnv = "REPAIR_RESERVE_TEST_UNSET_ADVISOR_KEY"
	conf.Lookup.APIKeyEnv = "REPAIR_RESERVE_TEST_UNSET_LOOKUP_KEY"

	services, err := conf.BuildServices(zap.NewNop())
	if err != nil {
		t.Fatalf("BuildServices() error = %v", err)
	}
	if services.Advisor == nil || services.Lookup == nil {
		t.Fatal("expected both services")
	}
}

func TestBuildServicesErrors(t *testing.T) {
	conf := &Configuration{}
	conf.Advisor.Timeout = "nope"
	if _, err := conf.BuildServices(nil); err == nil {
		t.Error("expected error for invalid advisor timeout")
	}

	t.Setenv("REPAIR_RESERVE_TEST_LOOKUP_KEY", "k")
	conf = &Configuration{}
	conf.Lookup.APIKeyEnv = "REPAIR_RESERVE_TEST_LOOKUP_KEY"
	conf.Cache.Backend = "memcached"
	if _, err := conf.BuildServices(nil); err == nil {
		t.Error("expected error for unsupported cache backend")
	}
}
