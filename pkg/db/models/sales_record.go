package models

// SalesRecord is one day of shop performance metrics. At most one record may
// exist per (date, shop) pair; writes for an existing pair merge into it.
type SalesRecord struct {
	ID               string   `json:"id" gorm:"column:id;primaryKey"`
	Date             string   `json:"date" gorm:"column:date;not null;uniqueIndex:idx_sales_day_shop,priority:1"`
	ShopID           string   `json:"shopId" gorm:"column:shop_id;not null;uniqueIndex:idx_sales_day_shop,priority:2"`
	Penjualan        float64  `json:"penjualan" gorm:"column:penjualan;not null;default:0"`
	Pesanan          int      `json:"pesanan" gorm:"column:pesanan;not null;default:0"`
	Konversi         float64  `json:"konversi" gorm:"column:konversi;not null;default:0"`
	Pengunjung       int      `json:"pengunjung" gorm:"column:pengunjung;not null;default:0"`
	ProdukDiklik     int      `json:"produkDiklik" gorm:"column:produk_diklik;not null;default:0"`
	ChatResponseRate *float64 `json:"chatResponseRate,omitempty" gorm:"column:chat_response_rate"`
	LateShipmentRate *float64 `json:"lateShipmentRate,omitempty" gorm:"column:late_shipment_rate"`
}

func (SalesRecord) TableName() string { return "sales_records" }
