package gst

import "testing"

type storedProduct struct {
	name string
	rate float64
}

func (p storedProduct) GSTDetails() ProductDetails {
	return ProductDetails{Name: p.name, Rate: p.rate, GSTRate: 12, Unit: "kg"}
}

func TestStaticCatalogResolver(t *testing.T) {
	r := StaticCatalogResolver{}

	for _, name := range []string{"paneer", "Paneer", "PANEER"} {
		d, ok := r.Resolve(name)
		if !ok {
			t.Errorf("Resolve(%q) not found", name)
			continue
		}
		if d.Rate != 300 || d.GSTRate != 12 || d.Unit != "kg" {
			t.Errorf("Resolve(%q) = %+v", name, d)
		}
	}

	for _, product := range []any{"", "caviar", nil, ProductDetails{Name: "Paneer"}} {
		if _, ok := r.Resolve(product); ok {
			t.Errorf("Resolve(%v) should not be found", product)
		}
	}
}

func TestPassthroughResolver(t *testing.T) {
	r := PassthroughResolver{}

	tests := []struct {
		name     string
		product  any
		wantOK   bool
		wantName string
	}{
		{"catalog name", "ghee", true, "Ghee"},
		{"unknown name", "caviar", false, ""},
		{"value", ProductDetails{Name: "Rasam Powder", GSTRate: 5}, true, "Rasam Powder"},
		{"pointer", &ProductDetails{Name: "Jaggery", GSTRate: 0}, true, "Jaggery"},
		{"nil pointer", (*ProductDetails)(nil), false, ""},
		{"nameless value", ProductDetails{Rate: 10}, false, ""},
		{"product record", storedProduct{name: "Khoa", rate: 400}, true, "Khoa"},
		{"json object", map[string]any{"name": "Sambar Mix", "gstRate": 18.0, "hsnCode": "2106"}, true, "Sambar Mix"},
		{"unsupported", 42, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := r.Resolve(tt.product)
			if ok != tt.wantOK {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && d.Name != tt.wantName {
				t.Errorf("Resolve() name = %q, want %q", d.Name, tt.wantName)
			}
		})
	}
}

func TestFromMapReadsBothKeyStyles(t *testing.T) {
	d, ok := GetProductDetails(map[string]any{"name": "Sambar Mix", "rate": 80.0, "gst_rate": 18.0, "unit": "packet", "hsn_code": "2106"})
	if !ok {
		t.Fatal("GetProductDetails() not found")
	}
	if d.Rate != 80 || d.GSTRate != 18 || d.Unit != "packet" || d.HSNCode != "2106" {
		t.Errorf("GetProductDetails() = %+v", d)
	}
}

func TestCatalogEntriesAreConsistent(t *testing.T) {
	for _, p := range CatalogProducts() {
		if !IsValidGSTRate(p.GSTRate) {
			t.Errorf("%s has non-statutory rate %v", p.Name, p.GSTRate)
		}
		if !IsValidHSNCode(p.HSNCode) {
			t.Errorf("%s has invalid HSN %q", p.Name, p.HSNCode)
		}
		if p.Rate <= 0 || p.Unit == "" {
			t.Errorf("%s has incomplete details %+v", p.Name, p)
		}
	}
}
