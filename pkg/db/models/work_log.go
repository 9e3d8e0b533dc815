package models

// WorkLog captures what was done for a shop on a given day. Composite keyed by
// (date, shop): repeat writes upsert the same row.
type WorkLog struct {
	ID       string  `json:"id" gorm:"column:id;primaryKey"`
	Date     string  `json:"date" gorm:"column:date;not null;uniqueIndex:idx_worklog_shop_day,priority:2"`
	ShopID   string  `json:"shopId" gorm:"column:shop_id;not null;uniqueIndex:idx_worklog_shop_day,priority:1"`
	Activity string  `json:"activity" gorm:"column:activity"`
	Hours    float64 `json:"hours" gorm:"column:hours;not null;default:0"`
}

func (WorkLog) TableName() string { return "work_logs" }
