package models

// VideoLog records one published content video and its performance.
type VideoLog struct {
	ID        string  `json:"id" gorm:"column:id;primaryKey"`
	Date      string  `json:"date" gorm:"column:date;not null;index:idx_video_day_shop,priority:1"`
	ShopID    string  `json:"shopId" gorm:"column:shop_id;not null;index:idx_video_day_shop,priority:2"`
	SKU       string  `json:"sku" gorm:"column:sku"`
	VideoCode string  `json:"videoCode" gorm:"column:video_code"`
	Concept   string  `json:"concept" gorm:"column:concept"`
	Views     int     `json:"views" gorm:"column:views;not null;default:0"`
	Likes     int     `json:"likes" gorm:"column:likes;not null;default:0"`
	Orders    int     `json:"orders" gorm:"column:orders;not null;default:0"`
	GMV       float64 `json:"gmv" gorm:"column:gmv;not null;default:0"`
}

func (VideoLog) TableName() string { return "video_logs" }
