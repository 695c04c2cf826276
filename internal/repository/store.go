package repository

import (
	"context"
	"errors"

	"math_quest_backend/internal/model"
)

// ErrReadOnly 在只读视图上写入
var ErrReadOnly = errors.New("repository: write on read-only view")

// 记录不存在时统一返回 gorm.ErrRecordNotFound

type QuestRepository interface {
	FindByID(id uint64) (*model.Quest, error)
	Exists(id uint64) (bool, error)
	Create(quest *model.Quest) error
}

type ProgressRepository interface {
	Find(user string, questID uint64) (*model.UserProgress, error)
	Save(progress *model.UserProgress) error
}

type BadgeRepository interface {
	Exists(owner string, questID uint64) (bool, error)
	Create(badge *model.Badge) error
	// FindByOwner 按 token id 升序，即发放顺序
	FindByOwner(owner string) ([]model.Badge, error)
}

type StateRepository interface {
	Load() (*model.ContractState, error)
	Save(state *model.ContractState) error
}

// Repositories 同一事务内的全部仓库
type Repositories struct {
	Quests   QuestRepository
	Progress ProgressRepository
	Badges   BadgeRepository
	State    StateRepository
}

// Store 账本状态的唯一权威存储
type Store interface {
	// Transaction 内任何错误都会回滚本次调用的全部写入
	Transaction(ctx context.Context, fn func(repos *Repositories) error) error
	// Read 在最近一次提交的状态上只读执行
	Read(ctx context.Context, fn func(repos *Repositories) error) error
}
