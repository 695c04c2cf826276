package service

import (
	"errors"
	"fmt"

	"math_quest_backend/internal/model"
	"math_quest_backend/internal/repository"
	"math_quest_backend/internal/util"

	"gorm.io/gorm"
)

var ErrNotInstantiated = errors.New("contract not instantiated")

type BadgeLedger struct {
	BadgeRepo repository.BadgeRepository
	StateRepo repository.StateRepository
	URIPrefix string
}

func NewBadgeLedger(badgeRepo repository.BadgeRepository, stateRepo repository.StateRepository, uriPrefix string) *BadgeLedger {
	if uriPrefix == "" {
		uriPrefix = util.DefaultBadgeURIPrefix
	}
	return &BadgeLedger{
		BadgeRepo: badgeRepo,
		StateRepo: stateRepo,
		URIPrefix: uriPrefix,
	}
}

func (l *BadgeLedger) Has(owner string, questID uint64) (bool, error) {
	return l.BadgeRepo.Exists(owner, questID)
}

// Issue 仅由 ProgressTracker 在完成任务时调用。
// AlreadyIssued 属于断言失败，正常流程不可达
func (l *BadgeLedger) Issue(owner string, quest *model.Quest) (*model.Badge, error) {
	held, err := l.Has(owner, quest.ID)
	if err != nil {
		return nil, err
	}
	if held {
		return nil, util.Errorf(util.ErrAlreadyIssued, "badge for quest %d already issued to %s", quest.ID, owner)
	}

	state, err := l.StateRepo.Load()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInstantiated
		}
		return nil, err
	}

	state.TokenCount++
	if err := l.StateRepo.Save(state); err != nil {
		return nil, err
	}

	badge := &model.Badge{
		TokenID:  state.TokenCount,
		Owner:    owner,
		QuestID:  quest.ID,
		TokenURI: fmt.Sprintf("%s/%s/%d", l.URIPrefix, quest.Operation, state.TokenCount),
	}
	if err := l.BadgeRepo.Create(badge); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.Errorf(util.ErrAlreadyIssued, "badge for quest %d already issued to %s", quest.ID, owner)
		}
		return nil, err
	}
	return badge, nil
}

// GetUserBadges 徽章 id 即任务 id，按发放顺序返回
func (l *BadgeLedger) GetUserBadges(owner string) (*model.BadgesAnswer, error) {
	badges, err := l.BadgeRepo.FindByOwner(owner)
	if err != nil {
		return nil, err
	}
	answer := &model.BadgesAnswer{Badges: make([]uint64, 0, len(badges))}
	for _, b := range badges {
		answer.Badges = append(answer.Badges, b.QuestID)
	}
	return answer, nil
}
