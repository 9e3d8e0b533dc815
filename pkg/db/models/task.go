package models

const (
	TaskFrequencyDaily  = "daily"
	TaskFrequencyWeekly = "weekly"
)

// PostVideoTaskID is the reserved task linked to video logs: the first video
// log for a (shop, date) marks it complete, deleting the last one reverts it.
const PostVideoTaskID = "task-post-video"

// Task defines a recurring checklist item, independent of date.
type Task struct {
	ID           string `json:"id" gorm:"column:id;primaryKey"`
	Text         string `json:"text" gorm:"column:text;not null"`
	Frequency    string `json:"frequency" gorm:"column:frequency;not null;default:daily"`
	ReminderTime string `json:"reminderTime" gorm:"column:reminder_time"`
}

func (Task) TableName() string { return "tasks" }
