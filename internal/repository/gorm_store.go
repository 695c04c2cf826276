package repository

import (
	"context"
	"math_quest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func newGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Quests:   NewQuestRepository(db),
		Progress: NewProgressRepository(db),
		Badges:   NewBadgeRepository(db),
		State:    NewStateRepository(db),
	}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormRepositories(tx))
	})
}

func (s *GormStore) Read(ctx context.Context, fn func(repos *Repositories) error) error {
	return fn(newGormRepositories(s.DB.WithContext(ctx)))
}

type GormQuestRepository struct {
	DB *gorm.DB
}

func NewQuestRepository(db *gorm.DB) *GormQuestRepository {
	return &GormQuestRepository{DB: db}
}

func (r *GormQuestRepository) FindByID(id uint64) (*model.Quest, error) {
	var quest model.Quest
	if err := r.DB.Where("id = ?", id).First(&quest).Error; err != nil {
		return nil, err
	}
	return &quest, nil
}

func (r *GormQuestRepository) Exists(id uint64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Quest{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormQuestRepository) Create(quest *model.Quest) error {
	return r.DB.Create(quest).Error
}

type GormProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *GormProgressRepository {
	return &GormProgressRepository{DB: db}
}

func (r *GormProgressRepository) Find(user string, questID uint64) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_address = ? AND quest_id = ?", user, questID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *GormProgressRepository) Save(progress *model.UserProgress) error {
	return r.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(progress).Error
}

type GormBadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *GormBadgeRepository {
	return &GormBadgeRepository{DB: db}
}

func (r *GormBadgeRepository) Exists(owner string, questID uint64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Badge{}).
		Where("owner = ? AND quest_id = ?", owner, questID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormBadgeRepository) Create(badge *model.Badge) error {
	return r.DB.Create(badge).Error
}

func (r *GormBadgeRepository) FindByOwner(owner string) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("owner = ?", owner).Order("token_id asc").Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}

type GormStateRepository struct {
	DB *gorm.DB
}

func NewStateRepository(db *gorm.DB) *GormStateRepository {
	return &GormStateRepository{DB: db}
}

func (r *GormStateRepository) Load() (*model.ContractState, error) {
	var state model.ContractState
	if err := r.DB.Where("id = ?", model.ContractStateID).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *GormStateRepository) Save(state *model.ContractState) error {
	state.ID = model.ContractStateID
	return r.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(state).Error
}
