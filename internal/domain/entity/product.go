package entity

// Product is one row of the travel-product catalog. The catalog is an
// unrelated read-only lookup with no workflow logic.
type Product struct {
	Name               string  `json:"product_name"`
	LocationApplicable string  `json:"location_applicable"`
	RackRate           float64 `json:"rack_rate"`
	Type               string  `json:"product_type"`
}
