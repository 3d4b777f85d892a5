package domain

import "time"

// NutritionData is the nutrition summary shown for a tracked product
type NutritionData struct {
	Barcode     string    `json:"barcode,omitempty"`
	ProductName string    `json:"productName"`
	Brand       string    `json:"brand,omitempty"`
	Quantity    string    `json:"quantity,omitempty"`
	Nutrients   Nutrients `json:"nutrients"`
	Source      string    `json:"source"` // "OpenFoodFacts" or "Cache"
	CachedAt    time.Time `json:"cachedAt,omitempty"`
}

// Nutrients holds key macronutrients per 100g
type Nutrients struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`       // grams
	Carbohydrates float64 `json:"carbohydrates"` // grams
	TotalFat      float64 `json:"totalFat"`      // grams
}

// OFFProduct is the subset of an Open Food Facts product record we consume
type OFFProduct struct {
	Code          string         `json:"code"`
	ProductName   string         `json:"product_name"`
	ProductNameEn string         `json:"product_name_en"`
	GenericName   string         `json:"generic_name"`
	Brands        string         `json:"brands"`
	Quantity      string         `json:"quantity"`
	Nutriments    map[string]any `json:"nutriments"`
}

// BestName returns the best available product name using the fallback order:
// product_name -> product_name_en -> generic_name -> "".
func (p *OFFProduct) BestName() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	if p.ProductNameEn != "" {
		return p.ProductNameEn
	}
	return p.GenericName
}

// OFFProductResponse is the envelope of the Open Food Facts product endpoint.
// Status is 1 when the barcode is known, 0 otherwise.
type OFFProductResponse struct {
	Code    string     `json:"code"`
	Status  int        `json:"status"`
	Product OFFProduct `json:"product"`
}

// OFFSearchResponse is the envelope of the Open Food Facts search endpoint
type OFFSearchResponse struct {
	Count    int          `json:"count"`
	Products []OFFProduct `json:"products"`
}
