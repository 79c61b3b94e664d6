package application

import "time"

type Application struct {
	ID                string     `gorm:"column:id;primaryKey;size:32" json:"id"`
	ApplicationNumber string     `gorm:"column:application_number;size:32;uniqueIndex;not null" json:"application_number"`
	StudentID         string     `gorm:"column:student_id;size:32;index;not null" json:"student_id"`
	ProgramID         string     `gorm:"column:program_id;size:32;index;not null" json:"program_id"`
	Status            Status     `gorm:"column:status;size:20;not null;default:'pending';index" json:"status"`
	Notes             string     `gorm:"column:notes;type:text" json:"notes,omitempty"`
	ReviewedBy        string     `gorm:"column:reviewed_by;size:32" json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

func Models() []any {
	return []any{&Application{}}
}
