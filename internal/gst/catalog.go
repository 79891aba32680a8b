package gst

import (
	"fmt"
	"strings"
)

// ProductDetails is the subset of product data the calculations need
type ProductDetails struct {
	Name    string  `json:"name"`
	Rate    float64 `json:"rate"`
	GSTRate float64 `json:"gst_rate"`
	Unit    string  `json:"unit"`
	HSNCode string  `json:"hsn_code,omitempty"`
}

// ProductLike is implemented by persisted product records so they can be
// passed to the engine in place of a catalog name
type ProductLike interface {
	GSTDetails() ProductDetails
}

// ProductResolver turns a product reference into its details
type ProductResolver interface {
	Resolve(product any) (*ProductDetails, bool)
}

// staticCatalog holds the built-in price list keyed by lowercase name.
var staticCatalog = map[string]ProductDetails{
	"dosa":         {Name: "Dosa", Rate: 25, GSTRate: 5, Unit: "packet", HSNCode: "2106"},
	"idli":         {Name: "Idli", Rate: 25, GSTRate: 5, Unit: "packet", HSNCode: "2106"},
	"vada":         {Name: "Vada", Rate: 30, GSTRate: 5, Unit: "packet", HSNCode: "2106"},
	"chapati":      {Name: "Chapati", Rate: 40, GSTRate: 5, Unit: "packet", HSNCode: "1905"},
	"paratha":      {Name: "Paratha", Rate: 60, GSTRate: 18, Unit: "packet", HSNCode: "1905"},
	"paneer":       {Name: "Paneer", Rate: 300, GSTRate: 12, Unit: "kg", HSNCode: "0406"},
	"curd":         {Name: "Curd", Rate: 50, GSTRate: 5, Unit: "kg", HSNCode: "0403"},
	"ghee":         {Name: "Ghee", Rate: 550, GSTRate: 12, Unit: "kg", HSNCode: "0405"},
	"butter":       {Name: "Butter", Rate: 480, GSTRate: 12, Unit: "kg", HSNCode: "0405"},
	"milk":         {Name: "Milk", Rate: 56, GSTRate: 0, Unit: "litre", HSNCode: "0401"},
	"buttermilk":   {Name: "Buttermilk", Rate: 20, GSTRate: 5, Unit: "litre", HSNCode: "0403"},
	"malai kofta":  {Name: "Malai Kofta", Rate: 180, GSTRate: 18, Unit: "packet", HSNCode: "2106"},
	"ice cream":    {Name: "Ice Cream", Rate: 250, GSTRate: 18, Unit: "litre", HSNCode: "2105"},
	"chocolate":    {Name: "Chocolate", Rate: 100, GSTRate: 28, Unit: "packet", HSNCode: "1806"},
	"soft drink":   {Name: "Soft Drink", Rate: 40, GSTRate: 28, Unit: "bottle", HSNCode: "2202"},
	"rice":         {Name: "Rice", Rate: 60, GSTRate: 0, Unit: "kg", HSNCode: "1006"},
	"wheat flour":  {Name: "Wheat Flour", Rate: 45, GSTRate: 0, Unit: "kg", HSNCode: "1101"},
	"mixed pickle": {Name: "Mixed Pickle", Rate: 120, GSTRate: 12, Unit: "jar", HSNCode: "2001"},
}

// CatalogProducts returns a copy of the static catalog entries
func CatalogProducts() []ProductDetails {
	out := make([]ProductDetails, 0, len(staticCatalog))
	for _, p := range staticCatalog {
		out = append(out, p)
	}
	return out
}

// StaticCatalogResolver only recognises names from the built-in catalog.
type StaticCatalogResolver struct{}

// Resolve implements ProductResolver
func (StaticCatalogResolver) Resolve(product any) (*ProductDetails, bool) {
	name, ok := product.(string)
	if !ok || name == "" {
		return nil, false
	}
	details, found := staticCatalog[strings.ToLower(name)]
	if !found {
		return nil, false
	}
	return &details, true
}

// PassthroughResolver trusts any product-shaped value and falls back to the
// static catalog for names.
type PassthroughResolver struct {
	Catalog StaticCatalogResolver
}

// Resolve implements ProductResolver
func (r PassthroughResolver) Resolve(product any) (*ProductDetails, bool) {
	switch p := product.(type) {
	case nil:
		return nil, false
	case string:
		return r.Catalog.Resolve(p)
	case ProductDetails:
		return nameRequired(p)
	case *ProductDetails:
		if p == nil {
			return nil, false
		}
		return nameRequired(*p)
	case ProductLike:
		return nameRequired(p.GSTDetails())
	case map[string]any:
		return fromMap(p)
	default:
		return nil, false
	}
}

func nameRequired(p ProductDetails) (*ProductDetails, bool) {
	if p.Name == "" {
		return nil, false
	}
	return &p, true
}

// fromMap handles products decoded from untyped JSON objects.
func fromMap(m map[string]any) (*ProductDetails, bool) {
	name, _ := m["name"].(string)
	if name == "" {
		return nil, false
	}
	details := ProductDetails{Name: name}
	details.Rate = number(m["rate"])
	details.GSTRate = number(firstOf(m, "gstRate", "gst_rate"))
	details.Unit, _ = firstOf(m, "unit").(string)
	details.HSNCode, _ = firstOf(m, "hsnCode", "hsn_code").(string)
	return &details, true
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

var defaultResolver ProductResolver = PassthroughResolver{}

// GetProductDetails resolves a catalog name or a product object. The second
// return is false when nothing matches.
func GetProductDetails(product any) (*ProductDetails, bool) {
	return defaultResolver.Resolve(product)
}

// describeProduct renders a product reference for error messages
func describeProduct(product any) string {
	switch p := product.(type) {
	case string:
		return p
	case ProductDetails:
		return p.Name
	case *ProductDetails:
		if p != nil {
			return p.Name
		}
	case ProductLike:
		return p.GSTDetails().Name
	}
	return fmt.Sprintf("%v", product)
}
