package gormstore

import "time"

// ActivityModel represents the rig_activities table
type ActivityModel struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Sequence     int       `gorm:"column:sequence;not null;index"`
	RigName      string    `gorm:"column:rig_name;not null;index"`
	Location     string    `gorm:"column:location;not null"`
	ActivityType string    `gorm:"column:activity_type;not null"`
	StartDate    time.Time `gorm:"column:start_date;not null"`
	EndDate      time.Time `gorm:"column:end_date;not null"`
	IsBatch      bool      `gorm:"column:is_batch;not null;default:false"`
	ImportedAt   time.Time `gorm:"column:imported_at;not null"`
}

func (ActivityModel) TableName() string {
	return "rig_activities"
}
