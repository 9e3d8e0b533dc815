package models

// TaskCompletion marks a task done (or undone) for one shop on one day.
// Composite keyed by (task, shop, date): toggling twice updates the same row.
type TaskCompletion struct {
	ID        string `json:"id" gorm:"column:id;primaryKey"`
	TaskID    string `json:"taskId" gorm:"column:task_id;not null;uniqueIndex:idx_completion_task_shop_day,priority:1"`
	ShopID    string `json:"shopId" gorm:"column:shop_id;not null;uniqueIndex:idx_completion_task_shop_day,priority:2"`
	Date      string `json:"date" gorm:"column:date;not null;uniqueIndex:idx_completion_task_shop_day,priority:3"`
	Completed bool   `json:"completed" gorm:"column:completed;not null;default:false"`
}

func (TaskCompletion) TableName() string { return "task_completions" }
