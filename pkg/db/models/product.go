package models

// Product is a curated hero listing shown on the dashboard, distinct from the
// pricing inventory. IDs must be unique and non-empty across the collection;
// the products sanitizer regenerates missing, duplicate, or sentinel ids.
type Product struct {
	ID    string `json:"id" gorm:"column:id;primaryKey"`
	SKU   string `json:"sku" gorm:"column:sku;index:idx_product_sku"`
	Name  string `json:"name" gorm:"column:name"`
	Image string `json:"image" gorm:"column:image"`
}

func (Product) TableName() string { return "products" }
