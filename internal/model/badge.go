package model

import "time"

// Badge 完成任务后铸造的徽章，每个 (owner, quest_id) 至多一枚
type Badge struct {
	TokenID   uint64    `gorm:"primaryKey;autoIncrement:false" json:"token_id"`
	Owner     string    `gorm:"size:128;not null;uniqueIndex:idx_badge_owner_quest" json:"owner"`
	QuestID   uint64    `gorm:"not null;uniqueIndex:idx_badge_owner_quest" json:"quest_id"`
	TokenURI  string    `gorm:"size:255" json:"token_uri"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Badge) TableName() string {
	return "badges"
}
