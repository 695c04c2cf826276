package model

import (
	"time"

	"gorm.io/datatypes"
)

// UserProgress 以 (user, quest_id) 为键，记录每道子题是否答对
type UserProgress struct {
	User      string                    `gorm:"primaryKey;column:user_address;size:128" json:"user"`
	QuestID   uint64                    `gorm:"primaryKey;autoIncrement:false" json:"quest_id"`
	Answered  datatypes.JSONSlice[bool] `gorm:"not null" json:"answered"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

func (UserProgress) TableName() string {
	return "user_progresses"
}

// Completed 所有子题均已答对
func (p *UserProgress) Completed() bool {
	if len(p.Answered) == 0 {
		return false
	}
	for _, ok := range p.Answered {
		if !ok {
			return false
		}
	}
	return true
}
