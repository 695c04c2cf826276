package repository

import (
	"context"
	"sort"
	"sync"

	"math_quest_backend/internal/model"

	"gorm.io/gorm"
)

type progressKey struct {
	user    string
	questID uint64
}

// MemoryStore 进程内存储，事务写入先落在覆盖层，提交时一次性合并
type MemoryStore struct {
	mu       sync.RWMutex
	quests   map[uint64]model.Quest
	progress map[progressKey]model.UserProgress
	badges   map[uint64]model.Badge
	state    *model.ContractState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quests:   make(map[uint64]model.Quest),
		progress: make(map[progressKey]model.UserProgress),
		badges:   make(map[uint64]model.Badge),
	}
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(repos *Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		store:    s,
		quests:   make(map[uint64]model.Quest),
		progress: make(map[progressKey]model.UserProgress),
		badges:   make(map[uint64]model.Badge),
	}
	if err := fn(tx.repositories()); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *MemoryStore) Read(ctx context.Context, fn func(repos *Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tx := &memoryTx{store: s, readOnly: true}
	return fn(tx.repositories())
}

type memoryTx struct {
	store    *MemoryStore
	readOnly bool
	quests   map[uint64]model.Quest
	progress map[progressKey]model.UserProgress
	badges   map[uint64]model.Badge
	state    *model.ContractState
}

func (tx *memoryTx) repositories() *Repositories {
	return &Repositories{
		Quests:   memoryQuestRepository{tx},
		Progress: memoryProgressRepository{tx},
		Badges:   memoryBadgeRepository{tx},
		State:    memoryStateRepository{tx},
	}
}

func (tx *memoryTx) commit() {
	s := tx.store
	for id, q := range tx.quests {
		s.quests[id] = q
	}
	for k, p := range tx.progress {
		s.progress[k] = p
	}
	for id, b := range tx.badges {
		s.badges[id] = b
	}
	if tx.state != nil {
		s.state = tx.state
	}
}

func copyQuest(q model.Quest) model.Quest {
	q.SubQuestions = append([]model.SubQuestion(nil), q.SubQuestions...)
	return q
}

func copyProgress(p model.UserProgress) model.UserProgress {
	p.Answered = append([]bool(nil), p.Answered...)
	return p
}

type memoryQuestRepository struct{ tx *memoryTx }

func (r memoryQuestRepository) FindByID(id uint64) (*model.Quest, error) {
	q, ok := r.tx.quests[id]
	if !ok {
		q, ok = r.tx.store.quests[id]
	}
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	q = copyQuest(q)
	return &q, nil
}

func (r memoryQuestRepository) Exists(id uint64) (bool, error) {
	_, err := r.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r memoryQuestRepository) Create(quest *model.Quest) error {
	if r.tx.readOnly {
		return ErrReadOnly
	}
	if ok, _ := r.Exists(quest.ID); ok {
		return gorm.ErrDuplicatedKey
	}
	r.tx.quests[quest.ID] = copyQuest(*quest)
	return nil
}

type memoryProgressRepository struct{ tx *memoryTx }

func (r memoryProgressRepository) Find(user string, questID uint64) (*model.UserProgress, error) {
	key := progressKey{user: user, questID: questID}
	p, ok := r.tx.progress[key]
	if !ok {
		p, ok = r.tx.store.progress[key]
	}
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = copyProgress(p)
	return &p, nil
}

func (r memoryProgressRepository) Save(progress *model.UserProgress) error {
	if r.tx.readOnly {
		return ErrReadOnly
	}
	key := progressKey{user: progress.User, questID: progress.QuestID}
	r.tx.progress[key] = copyProgress(*progress)
	return nil
}

type memoryBadgeRepository struct{ tx *memoryTx }

func (r memoryBadgeRepository) all() []model.Badge {
	merged := make(map[uint64]model.Badge, len(r.tx.store.badges)+len(r.tx.badges))
	for id, b := range r.tx.store.badges {
		merged[id] = b
	}
	for id, b := range r.tx.badges {
		merged[id] = b
	}
	badges := make([]model.Badge, 0, len(merged))
	for _, b := range merged {
		badges = append(badges, b)
	}
	sort.Slice(badges, func(i, j int) bool { return badges[i].TokenID < badges[j].TokenID })
	return badges
}

func (r memoryBadgeRepository) Exists(owner string, questID uint64) (bool, error) {
	for _, b := range r.all() {
		if b.Owner == owner && b.QuestID == questID {
			return true, nil
		}
	}
	return false, nil
}

func (r memoryBadgeRepository) Create(badge *model.Badge) error {
	if r.tx.readOnly {
		return ErrReadOnly
	}
	if _, ok := r.tx.store.badges[badge.TokenID]; ok {
		return gorm.ErrDuplicatedKey
	}
	if _, ok := r.tx.badges[badge.TokenID]; ok {
		return gorm.ErrDuplicatedKey
	}
	// 与 MySQL 的 (owner, quest_id) 唯一索引保持一致
	if ok, _ := r.Exists(badge.Owner, badge.QuestID); ok {
		return gorm.ErrDuplicatedKey
	}
	r.tx.badges[badge.TokenID] = *badge
	return nil
}

func (r memoryBadgeRepository) FindByOwner(owner string) ([]model.Badge, error) {
	var badges []model.Badge
	for _, b := range r.all() {
		if b.Owner == owner {
			badges = append(badges, b)
		}
	}
	return badges, nil
}

type memoryStateRepository struct{ tx *memoryTx }

func (r memoryStateRepository) Load() (*model.ContractState, error) {
	state := r.tx.state
	if state == nil {
		state = r.tx.store.state
	}
	if state == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *state
	return &cp, nil
}

func (r memoryStateRepository) Save(state *model.ContractState) error {
	if r.tx.readOnly {
		return ErrReadOnly
	}
	cp := *state
	cp.ID = model.ContractStateID
	r.tx.state = &cp
	return nil
}
