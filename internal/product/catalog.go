// Package product is the static storefront catalog.
package product

import "github.com/Dan9191/deferred-payment/internal/models"

var products = []models.Product{
	{ID: 1, Name: "iPhone 15 Pro Max", Price: 25999, Description: "256GB - Titanio Natural", Category: "phones"},
	{ID: 2, Name: "MacBook Air M2", Price: 22999, Description: `13" - 8GB RAM - 256GB SSD`, Category: "computers"},
	{ID: 3, Name: `iPad Pro 12.9"`, Price: 18999, Description: "128GB - Wi-Fi - Gris Espacial", Category: "tablets"},
	{ID: 4, Name: "AirPods Pro", Price: 5499, Description: "2da Generación con MagSafe", Category: "audio"},
	{ID: 5, Name: "Apple Watch Ultra 2", Price: 16999, Description: "GPS + Cellular - 49mm", Category: "wearables"},
	{ID: 6, Name: "Sony PS5", Price: 12999, Description: "Digital Edition - 825GB", Category: "gaming"},
	{ID: 7, Name: `Samsung Smart TV 65"`, Price: 15999, Description: "QLED 4K - Quantum HDR", Category: "tv"},
	{ID: 8, Name: "Canon EOS R6", Price: 45999, Description: "Cuerpo - Sensor Full Frame", Category: "cameras"},
}

// All returns the whole catalog
func All() []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}

// ByID returns a product by id
func ByID(id int64) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
