package config

import (
	"fmt"
	"strconv"
	"strings"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/services"

	"github.com/spf13/viper"
)

// GSTSettings identifies the registered seller and how its documents are issued
type GSTSettings struct {
	CountryCode      string  `json:"country_code"`
	CompanyCode      string  `json:"company_code"`
	CompanyName      string  `json:"company_name"`
	CompanyGSTIN     string  `json:"company_gstin,omitempty"`
	CompanyStateCode string  `json:"company_state_code"`
	CompanyAddress   string  `json:"company_address,omitempty"`
	ReturnCode       string  `json:"return_code"`
	Numbering        string  `json:"numbering"`
	DiscountPercent  float64 `json:"discount_percent"`
}

// LoadGSTSettings reads the seller settings from the environment.
// The state code falls back to the GSTIN prefix, then to Karnataka.
func LoadGSTSettings() (*GSTSettings, error) {
	setDefaults()

	settings := &GSTSettings{
		CountryCode:      viper.GetString("GST_COUNTRY_CODE"),
		CompanyCode:      strings.ToUpper(strings.TrimSpace(viper.GetString("COMPANY_CODE"))),
		CompanyName:      strings.TrimSpace(viper.GetString("COMPANY_NAME")),
		CompanyGSTIN:     strings.ToUpper(strings.TrimSpace(viper.GetString("COMPANY_GSTIN"))),
		CompanyStateCode: strings.TrimSpace(viper.GetString("COMPANY_STATE_CODE")),
		CompanyAddress:   strings.TrimSpace(viper.GetString("COMPANY_ADDRESS")),
		ReturnCode:       strings.ToUpper(strings.TrimSpace(viper.GetString("RETURN_CODE"))),
		Numbering:        strings.ToLower(viper.GetString("INVOICE_NUMBERING")),
	}

	discount, err := strconv.ParseFloat(viper.GetString("SALES_DISCOUNT_PERCENT"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SALES_DISCOUNT_PERCENT: %w", err)
	}
	settings.DiscountPercent = discount

	if settings.CompanyStateCode == "" {
		if len(settings.CompanyGSTIN) >= 2 {
			settings.CompanyStateCode = settings.CompanyGSTIN[:2]
		} else {
			settings.CompanyStateCode = models.DefaultSellerStateCode
		}
	}

	return settings, nil
}

// Validate validates the GST settings
func (s *GSTSettings) Validate() error {
	taxConfig, err := models.NewTaxConfig(s.CountryCode, s.CompanyStateCode)
	if err != nil {
		return err
	}

	if s.CompanyCode == "" {
		return fmt.Errorf("company code cannot be empty")
	}
	if strings.ContainsAny(s.CompanyCode, " -/") {
		return fmt.Errorf("company code %q must not contain spaces, dashes or slashes", s.CompanyCode)
	}
	if s.ReturnCode == "" || s.ReturnCode == s.CompanyCode {
		return fmt.Errorf("return code must be set and differ from the company code")
	}

	if _, ok := models.StateName(s.CompanyStateCode); !ok {
		return fmt.Errorf("unknown company state code %q", s.CompanyStateCode)
	}

	if s.CompanyGSTIN != "" {
		if err := taxConfig.ValidateBusinessNumber(s.CompanyGSTIN); err != nil {
			return fmt.Errorf("invalid company GSTIN: %w", err)
		}
		if s.CompanyGSTIN[:2] != s.CompanyStateCode {
			return fmt.Errorf("company GSTIN is registered in state %s, not %s", s.CompanyGSTIN[:2], s.CompanyStateCode)
		}
	}

	if s.DiscountPercent < 0 || s.DiscountPercent > 100 {
		return fmt.Errorf("sales discount must be between 0 and 100, got %g", s.DiscountPercent)
	}

	switch services.NumberingMode(s.Numbering) {
	case services.NumberingSequence, services.NumberingUnique:
	default:
		return fmt.Errorf("unsupported invoice numbering %q", s.Numbering)
	}

	return nil
}

// ServiceConfig converts the settings for the service container
func (s *GSTSettings) ServiceConfig() *services.ServiceConfig {
	return &services.ServiceConfig{
		TaxConfig: &services.TaxConfig{
			CountryCode:     s.CountryCode,
			SellerStateCode: s.CompanyStateCode,
		},
		Invoice: services.InvoiceSettings{
			CompanyCode:     s.CompanyCode,
			CompanyName:     s.CompanyName,
			CompanyGSTIN:    s.CompanyGSTIN,
			CompanyAddress:  s.CompanyAddress,
			ReturnCode:      s.ReturnCode,
			Numbering:       services.NumberingMode(s.Numbering),
			DiscountPercent: s.DiscountPercent,
		},
	}
}

// StateInfo names a GST state code
type StateInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// GetSupportedStates returns every state code a seller or buyer may use
func GetSupportedStates() []StateInfo {
	codes := models.StateCodes()
	states := make([]StateInfo, 0, len(codes))
	for _, code := range codes {
		name, _ := models.StateName(code)
		states = append(states, StateInfo{Code: code, Name: name})
	}
	return states
}

// TaxConfigurationGuide provides guidance for configuring the seller
type TaxConfigurationGuide struct {
	EnvironmentVariables []EnvVarInfo    `json:"environment_variables"`
	Examples             []ConfigExample `json:"examples"`
	SupportedStates      []StateInfo     `json:"supported_states"`
	GSTRates             []float64       `json:"gst_rates"`
}

// EnvVarInfo describes an environment variable for GST configuration
type EnvVarInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     string `json:"default"`
	Example     string `json:"example"`
	Required    bool   `json:"required"`
}

// ConfigExample provides example configurations for different scenarios
type ConfigExample struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	EnvVars     map[string]string `json:"env_vars"`
}

// GetTaxConfigurationGuide returns the configuration reference
func GetTaxConfigurationGuide() *TaxConfigurationGuide {
	taxConfig := models.NewIndianGSTConfig(models.DefaultSellerStateCode)

	return &TaxConfigurationGuide{
		EnvironmentVariables: []EnvVarInfo{
			{
				Name:        "COMPANY_CODE",
				Description: "Prefix of sales invoice numbers",
				Default:     "INV",
				Example:     "PSM",
			},
			{
				Name:        "COMPANY_NAME",
				Description: "Seller name printed on invoices",
				Default:     "GST Invoice",
				Example:     "Pai Sweets and Meals",
			},
			{
				Name:        "COMPANY_GSTIN",
				Description: "Seller GSTIN. Its first two digits must match COMPANY_STATE_CODE.",
				Example:     "29ABCDE1234F1Z5",
			},
			{
				Name:        "COMPANY_STATE_CODE",
				Description: "Two-digit state code of the seller. Decides CGST/SGST or IGST.",
				Default:     models.DefaultSellerStateCode,
				Example:     "27",
			},
			{
				Name:        "COMPANY_ADDRESS",
				Description: "Seller address printed on invoices",
				Example:     "12 MG Road, Bengaluru",
			},
			{
				Name:        "RETURN_CODE",
				Description: "Prefix of sales return numbers",
				Default:     "RET",
				Example:     "CRN",
			},
			{
				Name:        "INVOICE_NUMBERING",
				Description: "sequence for CODE-YYYY-MM-DD-NNN, unique for a random suffix",
				Default:     "sequence",
				Example:     "unique",
			},
			{
				Name:        "SALES_DISCOUNT_PERCENT",
				Description: "Discount applied to the GST-inclusive total of sales invoices",
				Default:     "5",
				Example:     "0",
			},
		},
		Examples: []ConfigExample{
			{
				Name:        "Karnataka distributor (default)",
				Description: "Intra-state sales within Karnataka carry CGST and SGST",
				EnvVars: map[string]string{
					"COMPANY_CODE":  "INV",
					"COMPANY_GSTIN": "29ABCDE1234F1Z5",
				},
			},
			{
				Name:        "Maharashtra distributor without discount",
				Description: "Sales outside Maharashtra carry IGST",
				EnvVars: map[string]string{
					"COMPANY_CODE":           "MHD",
					"COMPANY_STATE_CODE":     "27",
					"SALES_DISCOUNT_PERCENT": "0",
				},
			},
			{
				Name:        "Unregistered counter sales",
				Description: "No seller GSTIN, unique invoice numbers",
				EnvVars: map[string]string{
					"COMPANY_CODE":      "CTR",
					"INVOICE_NUMBERING": "unique",
				},
			},
		},
		SupportedStates: GetSupportedStates(),
		GSTRates:        taxConfig.GetRates(),
	}
}
