package gst

import "regexp"

// GSTRates are the statutory slabs, in percent
var GSTRates = []float64{0, 5, 12, 18, 28}

var (
	hsnPattern   = regexp.MustCompile(`^\d{4,8}$`)
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
)

// IsValidGSTRate reports whether rate is one of the statutory slabs
func IsValidGSTRate(rate float64) bool {
	for _, r := range GSTRates {
		if r == rate {
			return true
		}
	}
	return false
}

// IsValidHSNCode reports whether code is 4 to 8 digits
func IsValidHSNCode(code string) bool {
	return hsnPattern.MatchString(code)
}

// IsValidGSTNumber validates a GSTIN. An empty value is valid because the
// field is optional for unregistered parties.
func IsValidGSTNumber(gstin string) bool {
	if gstin == "" {
		return true
	}
	return gstinPattern.MatchString(gstin)
}

// SupplyType decides which levies apply to a sale
type SupplyType string

const (
	SupplyIntraState SupplyType = "intra"
	SupplyInterState SupplyType = "inter"
)

// StateCodeFromGSTIN returns the two-digit state code that prefixes a GSTIN,
// or "" when gstin is empty or malformed.
func StateCodeFromGSTIN(gstin string) string {
	if gstin == "" || !gstinPattern.MatchString(gstin) {
		return ""
	}
	return gstin[:2]
}

// SupplyTypeFor compares seller and buyer state codes. An unknown buyer
// state is treated as a local sale.
func SupplyTypeFor(sellerState, buyerState string) SupplyType {
	if buyerState == "" || sellerState == "" || buyerState == sellerState {
		return SupplyIntraState
	}
	return SupplyInterState
}
