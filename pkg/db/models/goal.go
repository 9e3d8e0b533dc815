package models

// Goal is a simple append/remove target; insertion order is meaningful.
type Goal struct {
	ID           string  `json:"id" gorm:"column:id;primaryKey"`
	Title        string  `json:"title" gorm:"column:title"`
	TargetAmount float64 `json:"targetAmount" gorm:"column:target_amount;not null;default:0"`
	Deadline     string  `json:"deadline" gorm:"column:deadline"`
	Achieved     bool    `json:"achieved" gorm:"column:achieved;not null;default:false"`
	Position     int     `json:"position" gorm:"column:position;not null;default:0"`
}

func (Goal) TableName() string { return "goals" }
