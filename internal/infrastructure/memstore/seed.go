package memstore

import "github.com/aggarwalComputronix/website/internal/domain"

func price(v float64) *float64 { return &v }

// DemoProducts is the catalog served by the memory driver when nothing has been imported
func DemoProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Dell XPS 13", Brand: "Dell", Collection: "Laptops", Type: domain.ProductTypeOriginal, Price: price(89999),
			Description: "Sleek and powerful laptop for professionals.", ProductImageURL: "https://placehold.co/400x300/e5e7eb/555?text=Dell+XPS+13"},
		{ID: 2, Name: "HP Pavilion Gaming PC", Brand: "HP", Collection: "Desktops", Type: domain.ProductTypeOriginal, Price: price(75500),
			Description: "High-performance gaming desktop.", ProductImageURL: "https://placehold.co/400x300/e5e7eb/555?text=HP+Gaming+PC"},
		{ID: 3, Name: "Logitech Wireless Mouse", Brand: "Logitech", Collection: "Accessories", Type: domain.ProductTypeCompatible, Price: price(1250),
			Description: "Ergonomic wireless mouse.", ProductImageURL: "https://placehold.co/400x300/e5e7eb/555?text=Logitech+Mouse"},
		{ID: 4, Name: `Samsung 27" Monitor`, Brand: "Samsung", Collection: "Monitors", Type: domain.ProductTypeOriginal, Price: price(18000),
			Description: "Vivid QHD display.", ProductImageURL: "https://placehold.co/400x300/e5e7eb/555?text=Samsung+Monitor"},
		{ID: 5, Name: "HP 510 4-Cell Battery", Brand: "HP", Collection: "Batteries", Type: domain.ProductTypeCompatible, Price: price(950),
			Description: "Compatible battery for HP 510.", ProductImageURL: "https://placehold.co/400x300/e5e7eb/555?text=HP+Battery"},
		{ID: 6, Name: "Dell Universal Dock", Brand: "Dell", Collection: "Accessories", Type: domain.ProductTypeOriginal, Price: price(13000),
			Description: "A single dock for all your devices.", ProductImageURL: "https://placehold.co/400x300/e5e7eb/555?text=Dell+Dock"},
		{ID: 7, Name: "Apple 20W Power Adapter", Brand: "Apple", Collection: "Adapters", Type: domain.ProductTypeOriginal, Price: price(1500),
			Description: "Fast charging adapter.", ProductImageURL: "https://placehold.co/400x300/e5e7eb/555?text=Apple+Adapter"},
		{ID: 8, Name: "Seagate 1TB External Drive", Brand: "Seagate", Collection: "Storage", Type: domain.ProductTypeOriginal, Price: price(4500),
			Description: "Portable and reliable storage.", ProductImageURL: "https://placehold.co/400x300/e5e7eb/555?text=External+Drive"},
	}
}
