package models

// PricingItem is one shop-scoped price row. Items sharing a SKU across shops
// are siblings of a single catalog entry: the catalog fields (name, image,
// brand, cost, selling price, fixed fee) stay synchronized across siblings,
// while shop-scoped fields (stock, rating) do not. Total is derived from the
// fee formula and never authoritative on its own.
type PricingItem struct {
	ID            string  `json:"id" gorm:"column:id;primaryKey"`
	SKU           string  `json:"sku" gorm:"column:sku;not null;index:idx_pricing_sku"`
	ShopID        string  `json:"shopId" gorm:"column:shop_id;not null"`
	ProductName   string  `json:"productName" gorm:"column:product_name"`
	Image         string  `json:"image" gorm:"column:image"`
	Brand         string  `json:"brand" gorm:"column:brand"`
	Stock         int     `json:"stock" gorm:"column:stock;not null;default:0"`
	Rating        float64 `json:"rating" gorm:"column:rating;not null;default:0"`
	Price         float64 `json:"price" gorm:"column:price;not null;default:0"`
	PriceNet      float64 `json:"priceNet" gorm:"column:price_net;not null;default:0"`
	Biaya1250     float64 `json:"biaya1250" gorm:"column:biaya_1250;not null;default:0"`
	Voucher       float64 `json:"voucher" gorm:"column:voucher;not null;default:0"`
	VoucherExpiry string  `json:"voucherExpiry" gorm:"column:voucher_expiry"`
	Discount      float64 `json:"discount" gorm:"column:discount;not null;default:0"`
	HargaJual     float64 `json:"hargaJual" gorm:"column:harga_jual;not null;default:0"`
	FlashSale     float64 `json:"flashSale" gorm:"column:flash_sale;not null;default:0"`
	Promotion     float64 `json:"promotion" gorm:"column:promotion;not null;default:0"`
	Affiliate     float64 `json:"affiliate" gorm:"column:affiliate;not null;default:0"`
	Admin         float64 `json:"admin" gorm:"column:admin;not null;default:0"`
	Ongkir        float64 `json:"ongkir" gorm:"column:ongkir;not null;default:0"`
	Total         float64 `json:"total" gorm:"column:total;not null;default:0"`
}

func (PricingItem) TableName() string { return "pricing_items" }
