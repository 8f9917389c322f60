package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/repair-reserve/internal/config"
	"github.com/iwvelando/repair-reserve/internal/reserve"
	"github.com/iwvelando/repair-reserve/internal/server"
	"github.com/iwvelando/repair-reserve/internal/session"
	"github.com/iwvelando/repair-reserve/pkg/constants"
	"github.com/iwvelando/repair-reserve/pkg/mathutil"
	"github.com/iwvelando/repair-reserve/pkg/output"
	"github.com/iwvelando/repair-reserve/pkg/testutil"
	"github.com/iwvelando/repair-reserve/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const testConfigPath = "../test_config.yaml"

func loadTestConfig(t *testing.T) *config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	warnings, err := conf.ValidateConfiguration()
	if err != nil {
		t.Fatalf("ValidateConfiguration() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected configuration warnings: %v", warnings)
	}
	return conf
}

func expectFee(t *testing.T, res *reserve.Result) {
	t.Helper()
	if res == nil {
		t.Fatal("expected a result")
	}
	if !mathutil.WithinTolerance(res.HouseholdMonthlyFee, 18_866.67, constants.FloatTolerance) {
		t.Errorf("HouseholdMonthlyFee = %v, expected 18866.67", res.HouseholdMonthlyFee)
	}
}

// TestEndToEndFromConfig follows the command line path: configuration,
// initial inputs, session, csv output.
func TestEndToEndFromConfig(t *testing.T) {
	conf := loadTestConfig(t)

	in := conf.InitialInputs(time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC))
	if in.Mode != reserve.ModeAmount || in.PeriodInputMode != reserve.PeriodRange {
		t.Fatalf("modes = %q/%q, expected amount/range", in.Mode, in.PeriodInputMode)
	}
	if in.DurationMonths != 60 {
		t.Fatalf("DurationMonths = %d, expected 60 derived from 2024..2028", in.DurationMonths)
	}

	sess := session.New(zap.NewNop(), in)
	expectFee(t, sess.Result())

	var buf bytes.Buffer
	if err := output.CSV(&buf, output.NewReport(sess.Inputs(), validation.ValidateInputs(sess.Inputs()))); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}
	fields, err := testutil.CSVFields(&buf)
	if err != nil {
		t.Fatalf("CSVFields() error = %v", err)
	}
	if fields["Household monthly fee"] != "18866.67" {
		t.Errorf("csv household fee = %q, expected 18866.67", fields["Household monthly fee"])
	}
	if fields["Year range"] != "2024-2028" {
		t.Errorf("csv year range = %q, expected 2024-2028", fields["Year range"])
	}
}

// TestSessionEditSequence walks a user through mode and period changes and
// checks the result after every step.
func TestSessionEditSequence(t *testing.T) {
	conf := loadTestConfig(t)
	sess := session.New(zap.NewNop(), conf.InitialInputs(time.Now()))

	steps := []struct {
		edit           session.Edit
		expectedMonths int
		computable     bool
	}{
		{session.Edit{Field: session.FieldMode, Text: "rate"}, 60, true},
		{session.Edit{Field: session.FieldEndYear, Value: 2029}, 72, true},
		{session.Edit{Field: session.FieldStartYear, Value: 2031}, 12, true},
		{session.Edit{Field: session.FieldPeriodInputMode, Text: "duration"}, 12, true},
		{session.Edit{Field: session.FieldDurationMonths, Value: 65}, 65, true},
		{session.Edit{Field: session.FieldHouseholdArea, Value: 0}, 65, false},
		{session.Edit{Field: session.FieldHouseholdArea, Value: 84.9}, 65, true},
	}

	for i, step := range steps {
		if err := sess.Apply(step.edit); err != nil {
			t.Fatalf("step %d: Apply(%+v) error = %v", i, step.edit, err)
		}
		in := sess.Inputs()
		if in.DurationMonths != step.expectedMonths {
			t.Errorf("step %d: DurationMonths = %d, expected %d", i, in.DurationMonths, step.expectedMonths)
		}
		if in.StartYear > in.EndYear {
			t.Errorf("step %d: range inverted %d..%d", i, in.StartYear, in.EndYear)
		}
		if (sess.Result() != nil) != step.computable {
			t.Errorf("step %d: computable = %v, expected %v", i, sess.Result() != nil, step.computable)
		}
	}
}

// TestCollaboratorsWithoutKeys checks that missing API keys degrade to
// fallback advice and not-found lookups without touching the session.
func TestCollaboratorsWithoutKeys(t *testing.T) {
	t.Setenv("REPAIR_RESERVE_TEST_ADVISOR_KEY", "")
	t.Setenv("REPAIR_RESERVE_TEST_LOOKUP_KEY", "")

	conf := loadTestConfig(t)
	services, err := conf.BuildServices(zap.NewNop())
	if err != nil {
		t.Fatalf("BuildServices() error = %v", err)
	}

	sess := session.New(zap.NewNop(), conf.InitialInputs(time.Now()))
	before := sess.Inputs()

	ctx := context.Background()
	token := sess.Begin(session.Lookup)
	if !sess.CompleteLookup(token, services.Lookup.Lookup(ctx, "Sample Apartments")) {
		t.Fatal("expected the lookup completion to be accepted")
	}
	if sess.ApplyLookup() {
		t.Error("a not-found lookup should not be applied")
	}

	token = sess.Begin(session.Advice)
	text, generated := services.Advisor.Advise(ctx, sess.Inputs(), sess.Result())
	if generated {
		t.Error("expected fallback advice without an API key")
	}
	if !sess.CompleteAdvice(token, text) || sess.Advice() == "" {
		t.Error("expected fallback advice to be stored")
	}

	if sess.Inputs() != before {
		t.Errorf("collaborators changed inputs: %+v", sess.Inputs())
	}
	expectFee(t, sess.Result())
}

// TestServerRoundTrip drives the HTTP API the way the web client does.
func TestServerRoundTrip(t *testing.T) {
	t.Setenv("REPAIR_RESERVE_TEST_ADVISOR_KEY", "")
	t.Setenv("REPAIR_RESERVE_TEST_LOOKUP_KEY", "")

	conf := loadTestConfig(t)
	services, err := conf.BuildServices(zap.NewNop())
	if err != nil {
		t.Fatalf("BuildServices() error = %v", err)
	}

	limiter := server.NewRateLimiter(100, time.Minute)
	defer limiter.Stop()
	srv := httptest.NewServer(server.RateLimit(zap.NewNop(), limiter,
		server.NewHandler(zap.NewNop(), services, 0, "integration")))
	defer srv.Close()

	post := func(path string, payload interface{}) *http.Response {
		t.Helper()
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
		resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST %s failed: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("POST %s = %d", path, resp.StatusCode)
		}
		return resp
	}

	type calculation struct {
		Inputs reserve.Inputs  `json:"inputs"`
		Result *reserve.Result `json:"result"`
	}

	resp := post("/api/calculate", map[string]interface{}{"inputs": conf.InitialInputs(time.Now())})
	var calc calculation
	if err := json.NewDecoder(resp.Body).Decode(&calc); err != nil {
		t.Fatalf("failed to decode calculate response: %v", err)
	}
	_ = resp.Body.Close()
	expectFee(t, calc.Result)

	resp = post("/api/edit", map[string]interface{}{
		"inputs": calc.Inputs,
		"edit":   session.Edit{Field: session.FieldEndYear, Value: 2029},
	})
	if err := json.NewDecoder(resp.Body).Decode(&calc); err != nil {
		t.Fatalf("failed to decode edit response: %v", err)
	}
	_ = resp.Body.Close()
	if calc.Inputs.DurationMonths != 72 {
		t.Errorf("DurationMonths = %d, expected 72 after edit", calc.Inputs.DurationMonths)
	}

	resp = post("/api/export", map[string]interface{}{"inputs": calc.Inputs, "format": "yaml"})
	var report output.Report
	if err := yaml.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode yaml export: %v", err)
	}
	_ = resp.Body.Close()
	if report.Inputs != calc.Inputs {
		t.Errorf("exported inputs %+v differ from %+v", report.Inputs, calc.Inputs)
	}

	resp = post("/api/advice", map[string]interface{}{"inputs": calc.Inputs})
	var advice struct {
		Advice    string `json:"advice"`
		Generated bool   `json:"generated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&advice); err != nil {
		t.Fatalf("failed to decode advice response: %v", err)
	}
	_ = resp.Body.Close()
	if advice.Generated || !strings.Contains(advice.Advice, "원") {
		t.Errorf("expected fallback advice quoting the fee, got %+v", advice)
	}
}
