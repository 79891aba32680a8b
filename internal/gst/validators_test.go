package gst

import "testing"

func TestIsValidGSTNumber(t *testing.T) {
	tests := []struct {
		gstin string
		want  bool
	}{
		{"", true},
		{"27ABCDE1234F1Z5", true},
		{"29AAACB1234C1ZX", true},
		{"invalid", false},
		{"27abcde1234f1z5", false},
		{"27ABCDE1234F0Z5", false},
		{"27ABCDE1234F1Y5", false},
		{"27ABCDE1234F1Z", false},
	}

	for _, tt := range tests {
		if got := IsValidGSTNumber(tt.gstin); got != tt.want {
			t.Errorf("IsValidGSTNumber(%q) = %v, want %v", tt.gstin, got, tt.want)
		}
	}
}

func TestIsValidGSTRate(t *testing.T) {
	for _, rate := range []float64{0, 5, 12, 18, 28} {
		if !IsValidGSTRate(rate) {
			t.Errorf("IsValidGSTRate(%v) = false", rate)
		}
	}
	for _, rate := range []float64{-5, 3, 10, 12.5, 40} {
		if IsValidGSTRate(rate) {
			t.Errorf("IsValidGSTRate(%v) = true", rate)
		}
	}
}

func TestIsValidHSNCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"0406", true},
		{"210690", true},
		{"21069099", true},
		{"406", false},
		{"210690991", false},
		{"04A6", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidHSNCode(tt.code); got != tt.want {
			t.Errorf("IsValidHSNCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestStateCodeFromGSTIN(t *testing.T) {
	if got := StateCodeFromGSTIN("27ABCDE1234F1Z5"); got != "27" {
		t.Errorf("StateCodeFromGSTIN() = %q, want 27", got)
	}
	if got := StateCodeFromGSTIN("bogus"); got != "" {
		t.Errorf("StateCodeFromGSTIN(bogus) = %q, want empty", got)
	}
}

func TestSupplyTypeFor(t *testing.T) {
	tests := []struct {
		seller, buyer string
		want          SupplyType
	}{
		{"27", "27", SupplyIntraState},
		{"27", "29", SupplyInterState},
		{"27", "", SupplyIntraState},
		{"", "29", SupplyIntraState},
	}

	for _, tt := range tests {
		if got := SupplyTypeFor(tt.seller, tt.buyer); got != tt.want {
			t.Errorf("SupplyTypeFor(%q, %q) = %v, want %v", tt.seller, tt.buyer, got, tt.want)
		}
	}
}
