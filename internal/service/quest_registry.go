package service

import (
	"errors"

	"math_quest_backend/internal/model"
	"math_quest_backend/internal/repository"
	"math_quest_backend/internal/util"

	"gorm.io/gorm"
)

type QuestRegistry struct {
	QuestRepo repository.QuestRepository
	Generator OperandGenerator
}

func NewQuestRegistry(questRepo repository.QuestRepository, generator OperandGenerator) *QuestRegistry {
	return &QuestRegistry{
		QuestRepo: questRepo,
		Generator: generator,
	}
}

// AddQuest 生成 5 道子题并保存；响应不回显操作数，调用方需要重新查询
func (r *QuestRegistry) AddQuest(env Env, id uint64, operation string) error {
	exists, err := r.QuestRepo.Exists(id)
	if err != nil {
		return err
	}
	if exists {
		return util.Errorf(util.ErrAlreadyExists, "Quest ID already exists")
	}

	op := model.Operation(operation)
	if !op.Valid() {
		return util.Errorf(util.ErrInvalidOperation, "Invalid operation %q", operation)
	}

	subQuestions, err := r.Generator.Generate(env.Random, id, op)
	if err != nil {
		return err
	}

	quest := &model.Quest{
		ID:           id,
		Operation:    op,
		SubQuestions: subQuestions,
		CreatedAt:    env.BlockTime,
	}
	if err := r.QuestRepo.Create(quest); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.Errorf(util.ErrAlreadyExists, "Quest ID already exists")
		}
		return err
	}
	return nil
}

func (r *QuestRegistry) load(id uint64) (*model.Quest, error) {
	quest, err := r.QuestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.Errorf(util.ErrNotFound, "Quest not found")
		}
		return nil, err
	}
	return quest, nil
}

// SubQuestion 返回任务及其第 index 道子题
func (r *QuestRegistry) SubQuestion(id uint64, index int) (*model.Quest, *model.SubQuestion, error) {
	quest, err := r.load(id)
	if err != nil {
		return nil, nil, err
	}
	if index < 0 || index >= len(quest.SubQuestions) {
		return nil, nil, util.Errorf(util.ErrNotFound, "Invalid sub-question index")
	}
	return quest, &quest.SubQuestions[index], nil
}

func (r *QuestRegistry) GetQuest(id uint64, index int) (*model.SubQuestionAnswer, error) {
	quest, sub, err := r.SubQuestion(id, index)
	if err != nil {
		return nil, err
	}
	return &model.SubQuestionAnswer{
		Operation: quest.Operation,
		A:         sub.A,
		B:         sub.B,
	}, nil
}

// GetAllSubQuestions 未指定子题下标时返回全部子题
func (r *QuestRegistry) GetAllSubQuestions(id uint64) (*model.QuestAnswer, error) {
	quest, err := r.load(id)
	if err != nil {
		return nil, err
	}
	answer := &model.QuestAnswer{SubQuestions: make([]model.SubQuestionAnswer, 0, len(quest.SubQuestions))}
	for _, sub := range quest.SubQuestions {
		answer.SubQuestions = append(answer.SubQuestions, model.SubQuestionAnswer{
			Operation: quest.Operation,
			A:         sub.A,
			B:         sub.B,
		})
	}
	return answer, nil
}
