package catalog

// Product is a catalog entry: a known product that can be tracked.
// BasePrice anchors demo data synthesis for products without real history.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	BasePrice float64 `json:"basePrice"`
}

// Brand groups catalog products under a brand name.
type Brand struct {
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

var brands = []Brand{
	{
		Name: "Eucerin",
		Products: []Product{
			{ID: "eucerin-eczema-relief-5oz", Name: "Eczema Relief Cream", Size: "5 oz", BasePrice: 9.49},
			{ID: "eucerin-eczema-relief-8oz", Name: "Eczema Relief Cream", Size: "8 oz", BasePrice: 13.99},
			{ID: "eucerin-eczema-relief-14oz", Name: "Eczema Relief Cream", Size: "14 oz", BasePrice: 17.49},
			{ID: "eucerin-eczema-relief-body-wash-13.5oz", Name: "Eczema Relief Body Wash", Size: "13.5 oz", BasePrice: 10.99},
			{ID: "eucerin-eczema-relief-flare-up-2oz", Name: "Eczema Relief Flare-Up Treatment", Size: "2 oz", BasePrice: 12.49},
			{ID: "eucerin-advanced-repair-16oz", Name: "Advanced Repair Lotion", Size: "16 oz", BasePrice: 11.99},
			{ID: "eucerin-advanced-repair-lotion-16.9oz", Name: "Advanced Repair Lotion", Size: "16.9 oz", BasePrice: 12.49},
			{ID: "eucerin-daily-hydration-16.9oz", Name: "Daily Hydration Lotion", Size: "16.9 oz", BasePrice: 9.99},
			{ID: "eucerin-original-healing-16oz", Name: "Original Healing Cream", Size: "16 oz", BasePrice: 15.49},
			{ID: "eucerin-roughness-relief-16.9oz", Name: "Roughness Relief Lotion", Size: "16.9 oz", BasePrice: 11.49},
			{ID: "eucerin-intensive-repair-16.9oz", Name: "Intensive Repair Lotion", Size: "16.9 oz", BasePrice: 11.99},
		},
	},
	{
		Name: "Pataday",
		Products: []Product{
			{ID: "pataday-once-daily-2.5ml", Name: "Once Daily Relief", Size: "2.5 mL", BasePrice: 18.99},
			{ID: "pataday-once-daily-8ml", Name: "Once Daily Relief", Size: "8 mL", BasePrice: 36.99},
			{ID: "pataday-extra-strength-2.5ml", Name: "Extra Strength", Size: "2.5 mL", BasePrice: 22.99},
			{ID: "pataday-extra-strength-8ml", Name: "Extra Strength", Size: "8 mL", BasePrice: 44.99},
			{ID: "pataday-twice-daily-5ml", Name: "Twice Daily Relief", Size: "5 mL", BasePrice: 14.99},
			{ID: "olopatadine-0.2-2.5ml", Name: "Olopatadine 0.2%", Size: "2.5 mL", BasePrice: 16.49},
		},
	},
}

// Brands returns the full product catalog grouped by brand.
// Callers must not mutate the returned slices.
func Brands() []Brand {
	return brands
}

// FindProduct looks up a catalog product and its brand by product ID.
func FindProduct(id string) (Product, string, bool) {
	for _, b := range brands {
		for _, p := range b.Products {
			if p.ID == id {
				return p, b.Name, true
			}
		}
	}
	return Product{}, "", false
}
