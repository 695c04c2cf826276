package service

import (
	"errors"
	"time"

	"math_quest_backend/internal/model"
	"math_quest_backend/internal/repository"
	"math_quest_backend/internal/util"

	"gorm.io/gorm"
)

// Env 执行环境在每次执行时提供的区块信息
type Env struct {
	BlockHeight uint64
	BlockTime   time.Time
	Random      []byte
}

// MessageInfo 与本次执行绑定的调用方
type MessageInfo struct {
	Sender string
}

// Outcome 一次执行提交的结果；Minted 随同状态一起提交
type Outcome struct {
	Action string
	Minted *model.Badge
}

// Dispatcher 唯一入口，按消息形状分发到各组件。
// 自身不持有状态，每次调用都在传入的仓库（即同一事务）上工作
type Dispatcher struct {
	Generator      OperandGenerator
	BadgeURIPrefix string
}

func NewDispatcher(generator OperandGenerator, badgeURIPrefix string) *Dispatcher {
	if generator == nil {
		generator = HashOperandGenerator{}
	}
	return &Dispatcher{
		Generator:      generator,
		BadgeURIPrefix: badgeURIPrefix,
	}
}

func (d *Dispatcher) registry(repos *repository.Repositories) *QuestRegistry {
	return NewQuestRegistry(repos.Quests, d.Generator)
}

func (d *Dispatcher) ledger(repos *repository.Repositories) *BadgeLedger {
	return NewBadgeLedger(repos.Badges, repos.State, d.BadgeURIPrefix)
}

func (d *Dispatcher) tracker(repos *repository.Repositories) *ProgressTracker {
	return NewProgressTracker(d.registry(repos), repos.Progress, d.ledger(repos))
}

// Instantiate 记录合约所有者，未指定时为调用方
func (d *Dispatcher) Instantiate(repos *repository.Repositories, info MessageInfo, msg *model.InstantiateMsg) error {
	owner := info.Sender
	if msg != nil && msg.Owner != nil {
		owner = *msg.Owner
	}
	if owner == "" {
		return util.Errorf(util.ErrMalformed, "owner address is empty")
	}

	_, err := repos.State.Load()
	if err == nil {
		return util.Errorf(util.ErrAlreadyExists, "Contract already instantiated")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return repos.State.Save(&model.ContractState{Owner: owner, TokenCount: 0})
}

func (d *Dispatcher) Execute(repos *repository.Repositories, env Env, info MessageInfo, msg *model.ExecuteMsg) (*Outcome, error) {
	if err := ValidateExecuteMsg(msg); err != nil {
		return nil, err
	}
	if info.Sender == "" {
		return nil, util.Errorf(util.ErrUnauthorized, "missing sender")
	}

	switch {
	case msg.AddQuest != nil:
		if err := d.authorizeOwner(repos, info); err != nil {
			return nil, err
		}
		m := msg.AddQuest
		if err := d.registry(repos).AddQuest(env, *m.ID, *m.Operation); err != nil {
			return nil, err
		}
		return &Outcome{Action: "add_quest"}, nil

	case msg.SubmitSolution != nil:
		m := msg.SubmitSolution
		minted, err := d.tracker(repos).SubmitSolution(env, info.Sender, *m.QuestID, *m.SubQuestionIndex, *m.Solution)
		if err != nil {
			return nil, err
		}
		return &Outcome{Action: "submit_solution", Minted: minted}, nil
	}
	return nil, util.Errorf(util.ErrMalformed, "unknown execute message")
}

// authorizeOwner 在读取任何业务状态之前完成
func (d *Dispatcher) authorizeOwner(repos *repository.Repositories, info MessageInfo) error {
	state, err := repos.State.Load()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotInstantiated
		}
		return err
	}
	if state.Owner != info.Sender {
		return util.Errorf(util.ErrUnauthorized, "Only the owner can add quests")
	}
	return nil
}

// Query 只读，除显式的 user 参数外不要求身份
func (d *Dispatcher) Query(repos *repository.Repositories, msg *model.QueryMsg) (interface{}, error) {
	if err := ValidateQueryMsg(msg); err != nil {
		return nil, err
	}

	switch {
	case msg.GetQuest != nil:
		q := msg.GetQuest
		if q.SubQuestionIndex == nil {
			return d.registry(repos).GetAllSubQuestions(*q.ID)
		}
		return d.registry(repos).GetQuest(*q.ID, *q.SubQuestionIndex)

	case msg.GetUserBadges != nil:
		return d.ledger(repos).GetUserBadges(*msg.GetUserBadges.User)

	case msg.GetUserProgress != nil:
		q := msg.GetUserProgress
		return d.tracker(repos).GetUserProgress(*q.User, *q.QuestID)
	}
	return nil, util.Errorf(util.ErrMalformed, "unknown query message")
}
