package models

// CompetitorItem tracks a rival listing for one of our SKUs. The (MySKU,
// ShopID) pair relates it to a PricingItem, but the lookup is soft and may
// miss.
type CompetitorItem struct {
	ID              string  `json:"id" gorm:"column:id;primaryKey"`
	MySKU           string  `json:"mySku" gorm:"column:my_sku;index:idx_competitor_sku"`
	ShopID          string  `json:"shopId" gorm:"column:shop_id"`
	CompetitorName  string  `json:"competitorName" gorm:"column:competitor_name"`
	CompetitorPrice float64 `json:"competitorPrice" gorm:"column:competitor_price;not null;default:0"`
	LastChecked     string  `json:"lastChecked" gorm:"column:last_checked"`
}

func (CompetitorItem) TableName() string { return "competitor_items" }
