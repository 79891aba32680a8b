package config

import (
	"testing"

	"gst-invoice-api/internal/services"
)

var gstEnvVars = []string{
	"GST_COUNTRY_CODE",
	"COMPANY_CODE",
	"COMPANY_NAME",
	"COMPANY_GSTIN",
	"COMPANY_STATE_CODE",
	"COMPANY_ADDRESS",
	"RETURN_CODE",
	"INVOICE_NUMBERING",
	"SALES_DISCOUNT_PERCENT",
}

// clearGSTEnv blanks the GST variables for the duration of the test.
// Empty values are treated as unset.
func clearGSTEnv(t *testing.T) {
	t.Helper()
	for _, key := range gstEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoadGSTSettings(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(t *testing.T, s *GSTSettings)
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			check: func(t *testing.T, s *GSTSettings) {
				if s.CountryCode != "IN" {
					t.Errorf("Expected country code IN, got %s", s.CountryCode)
				}
				if s.CompanyCode != "INV" || s.ReturnCode != "RET" {
					t.Errorf("Expected codes INV/RET, got %s/%s", s.CompanyCode, s.ReturnCode)
				}
				if s.CompanyStateCode != "29" {
					t.Errorf("Expected default state 29, got %s", s.CompanyStateCode)
				}
				if s.DiscountPercent != 5 {
					t.Errorf("Expected discount 5, got %g", s.DiscountPercent)
				}
				if s.Numbering != "sequence" {
					t.Errorf("Expected sequence numbering, got %s", s.Numbering)
				}
			},
		},
		{
			name: "state taken from GSTIN",
			envVars: map[string]string{
				"COMPANY_CODE":  "psm",
				"COMPANY_GSTIN": "27aaapl1234c1zv",
			},
			check: func(t *testing.T, s *GSTSettings) {
				if s.CompanyCode != "PSM" {
					t.Errorf("Expected upper-cased code PSM, got %s", s.CompanyCode)
				}
				if s.CompanyGSTIN != "27AAAPL1234C1ZV" {
					t.Errorf("Expected normalized GSTIN, got %s", s.CompanyGSTIN)
				}
				if s.CompanyStateCode != "27" {
					t.Errorf("Expected state 27 from GSTIN, got %s", s.CompanyStateCode)
				}
			},
		},
		{
			name: "custom configuration",
			envVars: map[string]string{
				"COMPANY_NAME":           "Pai Sweets",
				"COMPANY_STATE_CODE":     "33",
				"SALES_DISCOUNT_PERCENT": "0",
				"INVOICE_NUMBERING":      "Unique",
			},
			check: func(t *testing.T, s *GSTSettings) {
				if s.CompanyName != "Pai Sweets" {
					t.Errorf("Expected company name, got %s", s.CompanyName)
				}
				if s.CompanyStateCode != "33" {
					t.Errorf("Expected state 33, got %s", s.CompanyStateCode)
				}
				if s.DiscountPercent != 0 {
					t.Errorf("Expected discount 0, got %g", s.DiscountPercent)
				}
				if s.Numbering != "unique" {
					t.Errorf("Expected unique numbering, got %s", s.Numbering)
				}
			},
		},
		{
			name:    "invalid discount",
			envVars: map[string]string{"SALES_DISCOUNT_PERCENT": "five"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearGSTEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			settings, err := LoadGSTSettings()
			if tt.wantErr {
				if err == nil {
					t.Errorf("LoadGSTSettings() expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadGSTSettings() unexpected error: %v", err)
			}
			if err := settings.Validate(); err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			tt.check(t, settings)
		})
	}
}

func validSettings() GSTSettings {
	return GSTSettings{
		CountryCode:      "IN",
		CompanyCode:      "INV",
		CompanyName:      "GST Invoice",
		CompanyStateCode: "29",
		ReturnCode:       "RET",
		Numbering:        "sequence",
		DiscountPercent:  5,
	}
}

func TestGSTSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *GSTSettings)
		wantErr bool
	}{
		{"valid", func(s *GSTSettings) {}, false},
		{"valid with GSTIN", func(s *GSTSettings) { s.CompanyGSTIN = "29ABCDE1234F1Z5" }, false},
		{"unsupported country", func(s *GSTSettings) { s.CountryCode = "AU" }, true},
		{"empty company code", func(s *GSTSettings) { s.CompanyCode = "" }, true},
		{"company code with dash", func(s *GSTSettings) { s.CompanyCode = "IN-V" }, true},
		{"return code equals company code", func(s *GSTSettings) { s.ReturnCode = "INV" }, true},
		{"unknown state", func(s *GSTSettings) { s.CompanyStateCode = "99" }, true},
		{"malformed GSTIN", func(s *GSTSettings) { s.CompanyGSTIN = "29ABCDE1234" }, true},
		{"GSTIN from another state", func(s *GSTSettings) { s.CompanyGSTIN = "27AAAPL1234C1ZV" }, true},
		{"negative discount", func(s *GSTSettings) { s.DiscountPercent = -1 }, true},
		{"discount above 100", func(s *GSTSettings) { s.DiscountPercent = 100.5 }, true},
		{"full discount", func(s *GSTSettings) { s.DiscountPercent = 100 }, false},
		{"unknown numbering", func(s *GSTSettings) { s.Numbering = "random" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.modify(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGSTSettings_ServiceConfig(t *testing.T) {
	s := validSettings()
	s.CompanyGSTIN = "29ABCDE1234F1Z5"
	s.Numbering = "unique"

	cfg := s.ServiceConfig()
	if cfg.TaxConfig.CountryCode != "IN" || cfg.TaxConfig.SellerStateCode != "29" {
		t.Errorf("Unexpected tax config: %+v", cfg.TaxConfig)
	}
	if cfg.Invoice.CompanyCode != "INV" || cfg.Invoice.CompanyGSTIN != s.CompanyGSTIN {
		t.Errorf("Unexpected invoice settings: %+v", cfg.Invoice)
	}
	if cfg.Invoice.Numbering != services.NumberingUnique {
		t.Errorf("Expected unique numbering, got %s", cfg.Invoice.Numbering)
	}
	if cfg.Invoice.DiscountPercent != 5 {
		t.Errorf("Expected discount 5, got %g", cfg.Invoice.DiscountPercent)
	}
}

func TestGetTaxConfigurationGuide(t *testing.T) {
	guide := GetTaxConfigurationGuide()

	if len(guide.EnvironmentVariables) == 0 {
		t.Error("Expected environment variables in guide")
	}
	for _, env := range guide.EnvironmentVariables {
		if env.Name == "" || env.Description == "" {
			t.Errorf("Incomplete env var entry: %+v", env)
		}
	}

	for _, example := range guide.Examples {
		t.Run(example.Name, func(t *testing.T) {
			clearGSTEnv(t)
			for key, value := range example.EnvVars {
				t.Setenv(key, value)
			}
			settings, err := LoadGSTSettings()
			if err != nil {
				t.Fatalf("LoadGSTSettings() unexpected error: %v", err)
			}
			if err := settings.Validate(); err != nil {
				t.Errorf("Example does not validate: %v", err)
			}
		})
	}

	found := false
	for _, state := range guide.SupportedStates {
		if state.Code == "29" && state.Name == "Karnataka" {
			found = true
		}
	}
	if !found {
		t.Error("Expected Karnataka among supported states")
	}

	if len(guide.GSTRates) != 5 {
		t.Errorf("Expected 5 GST rates, got %v", guide.GSTRates)
	}
}
