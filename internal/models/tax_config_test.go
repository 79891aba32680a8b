package models

import (
	"testing"

	"gst-invoice-api/internal/gst"
)

func TestIndianGSTConfig(t *testing.T) {
	config := NewIndianGSTConfig("27")

	if config.GetTaxName() != "GST" || config.GetCountryCode() != "IN" || config.GetCurrency() != "INR" {
		t.Errorf("unexpected identity %s/%s/%s", config.GetTaxName(), config.GetCountryCode(), config.GetCurrency())
	}

	rates := config.GetRates()
	if len(rates) != 5 || rates[4] != 28 {
		t.Errorf("unexpected rates %v", rates)
	}
	rates[0] = 99
	if config.GetRates()[0] != 0 {
		t.Error("GetRates() must return a copy")
	}
}

func TestIndianGSTConfig_ValidateBusinessNumber(t *testing.T) {
	config := NewIndianGSTConfig("27")

	tests := []struct {
		name    string
		gstin   string
		wantErr bool
	}{
		{"empty allowed for unregistered buyers", "", false},
		{"valid Maharashtra GSTIN", "27ABCDE1234F1Z5", false},
		{"lowercase is normalised", "27abcde1234f1z5", false},
		{"malformed", "invalid", true},
		{"unknown state code", "99ABCDE1234F1Z5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.ValidateBusinessNumber(tt.gstin)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBusinessNumber(%q) error = %v, wantErr %v", tt.gstin, err, tt.wantErr)
			}
		})
	}
}

func TestIndianGSTConfig_SupplyTypeFor(t *testing.T) {
	config := NewIndianGSTConfig("27")

	if got := config.SupplyTypeFor("27"); got != gst.SupplyIntraState {
		t.Errorf("same state should be intra-state, got %s", got)
	}
	if got := config.SupplyTypeFor("29"); got != gst.SupplyInterState {
		t.Errorf("different state should be inter-state, got %s", got)
	}
	if got := config.SupplyTypeFor(""); got != gst.SupplyIntraState {
		t.Errorf("unknown buyer state should be intra-state, got %s", got)
	}
}

func TestIndianGSTConfig_CalculateTax(t *testing.T) {
	config := NewIndianGSTConfig("27")
	if got := config.CalculateTax(600, 12); got != 72 {
		t.Errorf("CalculateTax(600, 12) = %v, want 72", got)
	}
}

func TestNewTaxConfig(t *testing.T) {
	if _, err := NewTaxConfig("IN", "27"); err != nil {
		t.Errorf("NewTaxConfig(IN) failed: %v", err)
	}
	if _, err := NewTaxConfig("AU", "27"); err == nil {
		t.Error("Expected error for unsupported country")
	}
}

func TestStateName(t *testing.T) {
	if name, ok := StateName("33"); !ok || name != "Tamil Nadu" {
		t.Errorf("StateName(33) = %q, %v", name, ok)
	}
	if _, ok := StateName("00"); ok {
		t.Error("StateName(00) should not be found")
	}
}

func TestStateCodes(t *testing.T) {
	codes := StateCodes()
	if len(codes) != len(stateNames) {
		t.Fatalf("StateCodes() returned %d codes, want %d", len(codes), len(stateNames))
	}
	if codes[0] != "01" || codes[len(codes)-1] != "97" {
		t.Errorf("StateCodes() not sorted: first %s, last %s", codes[0], codes[len(codes)-1])
	}
}
