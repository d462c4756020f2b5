package domain

import "time"

// Department is an organizational partition used for authorization scoping
type Department struct {
	ID          string    `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(100)" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Department) TableName() string { return "departments" }
