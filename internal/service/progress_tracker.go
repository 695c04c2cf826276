package service

import (
	"errors"

	"math_quest_backend/internal/model"
	"math_quest_backend/internal/repository"
	"math_quest_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressTracker struct {
	Registry     *QuestRegistry
	ProgressRepo repository.ProgressRepository
	Ledger       *BadgeLedger
}

func NewProgressTracker(registry *QuestRegistry, progressRepo repository.ProgressRepository, ledger *BadgeLedger) *ProgressTracker {
	return &ProgressTracker{
		Registry:     registry,
		ProgressRepo: progressRepo,
		Ledger:       ledger,
	}
}

// advance 标记第 index 题已答对，返回新进度以及是否有变化
func advance(answered []bool, index int) ([]bool, bool) {
	if answered[index] {
		return answered, false
	}
	next := append([]bool(nil), answered...)
	next[index] = true
	return next, true
}

func allTrue(answered []bool) bool {
	for _, ok := range answered {
		if !ok {
			return false
		}
	}
	return len(answered) > 0
}

func (t *ProgressTracker) load(user string, quest *model.Quest) (*model.UserProgress, error) {
	progress, err := t.ProgressRepo.Find(user, quest.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		progress = &model.UserProgress{User: user, QuestID: quest.ID}
	}
	if len(progress.Answered) != len(quest.SubQuestions) {
		answered := make([]bool, len(quest.SubQuestions))
		copy(answered, progress.Answered)
		progress.Answered = answered
	}
	return progress, nil
}

// SubmitSolution 校验答案并推进进度。进度全部为真且尚无徽章时，
// 在同一次调用内发放徽章；返回值非空表示本次铸造了徽章
func (t *ProgressTracker) SubmitSolution(env Env, caller string, questID uint64, index int, solution uint64) (*model.Badge, error) {
	quest, sub, err := t.Registry.SubQuestion(questID, index)
	if err != nil {
		return nil, err
	}

	// 已完成的任务也要校验答案，错误答案始终失败
	if solution != sub.Answer {
		return nil, util.Errorf(util.ErrIncorrectSolution, "Incorrect solution")
	}

	progress, err := t.load(caller, quest)
	if err != nil {
		return nil, err
	}

	next, changed := advance(progress.Answered, index)
	if changed {
		progress.Answered = next
		progress.UpdatedAt = env.BlockTime
		if err := t.ProgressRepo.Save(progress); err != nil {
			return nil, err
		}
	}

	if !allTrue(next) {
		return nil, nil
	}
	held, err := t.Ledger.Has(caller, quest.ID)
	if err != nil {
		return nil, err
	}
	if held {
		return nil, nil
	}
	return t.Ledger.Issue(caller, quest)
}

// GetUserProgress 无记录时视为全部未答
func (t *ProgressTracker) GetUserProgress(user string, questID uint64) (*model.ProgressAnswer, error) {
	progress, err := t.ProgressRepo.Find(user, questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.ProgressAnswer{Progress: make([]bool, util.SubQuestionCount)}, nil
		}
		return nil, err
	}
	answered := make([]bool, util.SubQuestionCount)
	copy(answered, progress.Answered)
	return &model.ProgressAnswer{Progress: answered}, nil
}
