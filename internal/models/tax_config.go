package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gst-invoice-api/internal/gst"
)

// TaxConfig describes the tax regime invoices are issued under
type TaxConfig interface {
	GetTaxName() string
	GetCountryCode() string
	GetCurrency() string
	GetRates() []float64
	GetRegistrationThreshold() float64
	GetSellerStateCode() string
	ValidateBusinessNumber(businessNumber string) error
	CalculateTax(amount, rate float64) float64
	SupplyTypeFor(buyerStateCode string) gst.SupplyType
	GetRequiredTaxInvoiceFields() []string
}

// IndianGSTConfig implements TaxConfig for Indian GST.
// Intra-state supplies carry CGST and SGST at half the slab rate each;
// inter-state supplies carry IGST at the full rate.
type IndianGSTConfig struct {
	SellerStateCode string
}

// Aggregate turnover above which a supplier of goods must register
const IndianGSTRegistrationThreshold = 4000000.00

// DefaultSellerStateCode is used when no seller state is configured (Karnataka)
const DefaultSellerStateCode = "29"

// NewIndianGSTConfig creates a config for a seller in the given state
func NewIndianGSTConfig(sellerStateCode string) *IndianGSTConfig {
	return &IndianGSTConfig{SellerStateCode: sellerStateCode}
}

func (c *IndianGSTConfig) GetTaxName() string {
	return "GST"
}

func (c *IndianGSTConfig) GetCountryCode() string {
	return "IN"
}

func (c *IndianGSTConfig) GetCurrency() string {
	return "INR"
}

func (c *IndianGSTConfig) GetRates() []float64 {
	return append([]float64(nil), gst.GSTRates...)
}

func (c *IndianGSTConfig) GetRegistrationThreshold() float64 {
	return IndianGSTRegistrationThreshold
}

func (c *IndianGSTConfig) GetSellerStateCode() string {
	return c.SellerStateCode
}

// ValidateBusinessNumber validates a GSTIN. Empty is allowed for
// unregistered buyers.
func (c *IndianGSTConfig) ValidateBusinessNumber(gstin string) error {
	if gstin == "" {
		return nil
	}

	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if !gst.IsValidGSTNumber(gstin) {
		return errors.New("GSTIN must be 15 characters: state code, PAN, entity number, Z and check character")
	}

	if _, ok := StateName(gstin[:2]); !ok {
		return fmt.Errorf("unknown state code %s in GSTIN", gstin[:2])
	}

	return nil
}

func (c *IndianGSTConfig) CalculateTax(amount, rate float64) float64 {
	return gst.CalculateGST(amount, rate)
}

func (c *IndianGSTConfig) SupplyTypeFor(buyerStateCode string) gst.SupplyType {
	return gst.SupplyTypeFor(c.SellerStateCode, buyerStateCode)
}

// GetRequiredTaxInvoiceFields returns the particulars a tax invoice must show
func (c *IndianGSTConfig) GetRequiredTaxInvoiceFields() []string {
	return []string{
		"seller_gstin",
		"invoice_number",
		"invoice_date",
		"customer_details",
		"place_of_supply",
		"hsn_code",
		"taxable_value",
		"gst_rate",
		"gst_amount",
		"total_amount",
	}
}

// NewTaxConfig creates tax configuration based on country code
func NewTaxConfig(countryCode, sellerStateCode string) (TaxConfig, error) {
	switch strings.ToUpper(countryCode) {
	case "IN", "IND", "INDIA":
		return NewIndianGSTConfig(sellerStateCode), nil
	default:
		return nil, fmt.Errorf("unsupported country code: %s", countryCode)
	}
}

var stateNames = map[string]string{
	"01": "Jammu and Kashmir",
	"02": "Himachal Pradesh",
	"03": "Punjab",
	"04": "Chandigarh",
	"05": "Uttarakhand",
	"06": "Haryana",
	"07": "Delhi",
	"08": "Rajasthan",
	"09": "Uttar Pradesh",
	"10": "Bihar",
	"11": "Sikkim",
	"12": "Arunachal Pradesh",
	"13": "Nagaland",
	"14": "Manipur",
	"15": "Mizoram",
	"16": "Tripura",
	"17": "Meghalaya",
	"18": "Assam",
	"19": "West Bengal",
	"20": "Jharkhand",
	"21": "Odisha",
	"22": "Chhattisgarh",
	"23": "Madhya Pradesh",
	"24": "Gujarat",
	"26": "Dadra and Nagar Haveli and Daman and Diu",
	"27": "Maharashtra",
	"29": "Karnataka",
	"30": "Goa",
	"31": "Lakshadweep",
	"32": "Kerala",
	"33": "Tamil Nadu",
	"34": "Puducherry",
	"35": "Andaman and Nicobar Islands",
	"36": "Telangana",
	"37": "Andhra Pradesh",
	"38": "Ladakh",
	"97": "Other Territory",
}

// StateName returns the name of a GST state code
func StateName(code string) (string, bool) {
	name, ok := stateNames[code]
	return name, ok
}

// StateCodes returns every known GST state code in ascending order
func StateCodes() []string {
	codes := make([]string, 0, len(stateNames))
	for code := range stateNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
