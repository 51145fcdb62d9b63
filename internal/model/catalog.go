package model

// sampleProduct builds a catalog entry with a stable ID so sample layouts are
// reproducible across runs.
func sampleProduct(id, name string, w, h float64) Product {
	return Product{
		ID:       id,
		Name:     name,
		WidthCm:  w,
		HeightCm: h,
		ImageRef: "products/" + id + ".png",
	}
}

// SampleProducts returns the cosmetics catalog loaded when no catalog file exists.
func SampleProducts() []Product {
	return []Product{
		sampleProduct("lipstick-01", "Lipstick", 3, 8),
		sampleProduct("foundation-01", "Foundation Bottle", 5, 15),
		sampleProduct("serum-01", "Serum Bottle", 4, 12),
		sampleProduct("mascara-01", "Mascara", 2, 10),
		sampleProduct("compact-01", "Compact Powder", 8, 8),
		sampleProduct("shampoo-01", "Shampoo Bottle", 7, 22),
		sampleProduct("facewash-01", "Face Wash Tube", 5, 16),
		sampleProduct("nailpolish-01", "Nail Polish", 3, 7),
		sampleProduct("perfume-01", "Perfume Bottle", 6, 14),
		sampleProduct("hairoil-01", "Hair Oil Bottle", 6, 18),
		sampleProduct("moisturizer-01", "Moisturizer Jar", 7, 7),
		sampleProduct("sunscreen-01", "Sunscreen Tube", 4, 14),
		sampleProduct("eyeshadow-01", "Eye Shadow Palette", 10, 10),
		sampleProduct("bbcream-01", "BB Cream", 4, 13),
		sampleProduct("settingspray-01", "Setting Spray", 5, 17),
	}
}

// DefaultCatalog returns the sample products as a catalog.
func DefaultCatalog() Catalog {
	return NewCatalog(SampleProducts()...)
}
