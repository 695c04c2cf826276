package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"math_quest_backend/internal/model"
	"math_quest_backend/internal/repository"
	"math_quest_backend/internal/util"
	"math_quest_backend/pkg/random"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner"

type recordingSink struct {
	mu     sync.Mutex
	badges []model.Badge
}

func (s *recordingSink) BadgeMinted(_ context.Context, badge model.Badge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges = append(s.badges, badge)
}

func (s *recordingSink) minted() []model.Badge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Badge(nil), s.badges...)
}

func u64(v uint64) *uint64 { return &v }
func intp(v int) *int      { return &v }
func str(v string) *string { return &v }

func newTestRuntime(t *testing.T) (*Runtime, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	rt := NewRuntime(repository.NewMemoryStore(), NewDispatcher(nil, ""), random.FixedSource{Seed: testSeed}, sink)
	require.NoError(t, rt.EnsureInstantiated(context.Background(), testOwner))
	return rt, sink
}

func addQuest(rt *Runtime, sender string, id uint64, op string) error {
	_, err := rt.Execute(context.Background(), sender, &model.ExecuteMsg{
		AddQuest: &model.AddQuestMsg{ID: u64(id), Operation: str(op)},
	})
	return err
}

func submit(rt *Runtime, user string, questID uint64, index int, solution uint64) error {
	_, err := rt.Execute(context.Background(), user, &model.ExecuteMsg{
		SubmitSolution: &model.SubmitSolutionMsg{QuestID: u64(questID), SubQuestionIndex: intp(index), Solution: u64(solution)},
	})
	return err
}

// answersOf 直接从存储读出正确答案
func answersOf(t *testing.T, rt *Runtime, questID uint64) []uint64 {
	t.Helper()
	var answers []uint64
	err := rt.Store.Read(context.Background(), func(repos *repository.Repositories) error {
		quest, err := repos.Quests.FindByID(questID)
		if err != nil {
			return err
		}
		for _, sub := range quest.SubQuestions {
			answers = append(answers, sub.Answer)
		}
		return nil
	})
	require.NoError(t, err)
	return answers
}

func progressOf(t *testing.T, rt *Runtime, user string, questID uint64) []bool {
	t.Helper()
	answer, err := rt.Query(context.Background(), &model.QueryMsg{
		GetUserProgress: &model.GetUserProgressQuery{User: str(user), QuestID: u64(questID)},
	})
	require.NoError(t, err)
	return answer.(*model.ProgressAnswer).Progress
}

func badgesOf(t *testing.T, rt *Runtime, user string) []uint64 {
	t.Helper()
	answer, err := rt.Query(context.Background(), &model.QueryMsg{
		GetUserBadges: &model.GetUserBadgesQuery{User: str(user)},
	})
	require.NoError(t, err)
	return answer.(*model.BadgesAnswer).Badges
}

func TestRuntime_FreshProgramHasNoBadges(t *testing.T) {
	rt := NewRuntime(repository.NewMemoryStore(), NewDispatcher(nil, ""), random.FixedSource{Seed: testSeed})
	assert.Equal(t, []uint64{}, badgesOf(t, rt, "alice"))
}

func TestRuntime_AddAndGetQuest(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, addQuest(rt, testOwner, 1, "+"))

	answer, err := rt.Query(context.Background(), &model.QueryMsg{
		GetQuest: &model.GetQuestQuery{ID: u64(1), SubQuestionIndex: intp(0)},
	})
	require.NoError(t, err)
	assert.Equal(t, &model.SubQuestionAnswer{Operation: model.OpAdd, A: 46, B: 96}, answer)

	answer, err = rt.Query(context.Background(), &model.QueryMsg{
		GetQuest: &model.GetQuestQuery{ID: u64(1)},
	})
	require.NoError(t, err)
	all := answer.(*model.QuestAnswer)
	require.Len(t, all.SubQuestions, util.SubQuestionCount)
	assert.Equal(t, model.SubQuestionAnswer{Operation: model.OpAdd, A: 9, B: 2}, all.SubQuestions[4])
}

func TestRuntime_CompleteQuestMintsBadge(t *testing.T) {
	rt, sink := newTestRuntime(t)
	require.NoError(t, addQuest(rt, testOwner, 2, "+"))
	answers := answersOf(t, rt, 2)

	for i, solution := range answers {
		require.NoError(t, submit(rt, "alice", 2, i, solution))

		want := make([]bool, util.SubQuestionCount)
		for j := 0; j <= i; j++ {
			want[j] = true
		}
		assert.Equal(t, want, progressOf(t, rt, "alice", 2))

		if i < len(answers)-1 {
			assert.Empty(t, badgesOf(t, rt, "alice"), "badge before completion at index %d", i)
		}
	}
	assert.Equal(t, []uint64{2}, badgesOf(t, rt, "alice"))

	minted := sink.minted()
	require.Len(t, minted, 1)
	assert.Equal(t, "alice", minted[0].Owner)
	assert.Equal(t, uint64(2), minted[0].QuestID)
	assert.Equal(t, uint64(1), minted[0].TokenID)
	assert.Equal(t, "ipfs://math_quest/+/1", minted[0].TokenURI)
}

func TestRuntime_PartialProgressHasNoBadge(t *testing.T) {
	rt, sink := newTestRuntime(t)
	require.NoError(t, addQuest(rt, testOwner, 3, "-"))
	answers := answersOf(t, rt, 3)

	require.NoError(t, submit(rt, "alice", 3, 0, answers[0]))
	require.NoError(t, submit(rt, "alice", 3, 1, answers[1]))

	assert.Equal(t, []bool{true, true, false, false, false}, progressOf(t, rt, "alice", 3))
	assert.Equal(t, []uint64{}, badgesOf(t, rt, "alice"))
	assert.Empty(t, sink.minted())
}

func TestRuntime_OutOfOrderAndRepeatedSubmissions(t *testing.T) {
	rt, sink := newTestRuntime(t)
	require.NoError(t, addQuest(rt, testOwner, 4, "*"))
	answers := answersOf(t, rt, 4)

	for _, i := range []int{4, 2, 2, 0, 3} {
		require.NoError(t, submit(rt, "alice", 4, i, answers[i]))
	}
	assert.Equal(t, []bool{true, false, true, true, true}, progressOf(t, rt, "alice", 4))
	assert.Empty(t, badgesOf(t, rt, "alice"))

	require.NoError(t, submit(rt, "alice", 4, 1, answers[1]))
	assert.Equal(t, []uint64{4}, badgesOf(t, rt, "alice"))

	// 完成之后重复提交正确答案不再发放徽章
	for i, solution := range answers {
		require.NoError(t, submit(rt, "alice", 4, i, solution))
	}
	assert.Equal(t, []uint64{4}, badgesOf(t, rt, "alice"))
	assert.Len(t, sink.minted(), 1)
}

func TestRuntime_IncorrectSolution(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, addQuest(rt, testOwner, 5, "/"))
	answers := answersOf(t, rt, 5)

	err := submit(rt, "alice", 5, 0, answers[0]+1)
	require.ErrorIs(t, err, util.ErrIncorrectSolution)
	assert.Contains(t, err.Error(), "Incorrect solution")
	assert.Equal(t, make([]bool, util.SubQuestionCount), progressOf(t, rt, "alice", 5))

	for i, solution := range answers {
		require.NoError(t, submit(rt, "alice", 5, i, solution))
	}
	// 已完成的任务仍然校验答案
	err = submit(rt, "alice", 5, 3, answers[3]+7)
	assert.ErrorIs(t, err, util.ErrIncorrectSolution)
	assert.Equal(t, []uint64{5}, badgesOf(t, rt, "alice"))
}

func TestRuntime_UsersAreIsolated(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, addQuest(rt, testOwner, 6, "+"))
	answers := answersOf(t, rt, 6)

	for i, solution := range answers {
		require.NoError(t, submit(rt, "alice", 6, i, solution))
	}
	require.NoError(t, submit(rt, "bob", 6, 2, answers[2]))

	assert.Equal(t, []uint64{6}, badgesOf(t, rt, "alice"))
	assert.Equal(t, []uint64{}, badgesOf(t, rt, "bob"))
	assert.Equal(t, []bool{false, false, true, false, false}, progressOf(t, rt, "bob", 6))
	assert.Equal(t, make([]bool, util.SubQuestionCount), progressOf(t, rt, "carol", 6))
}

func TestRuntime_BadgesOrderedByMint(t *testing.T) {
	rt, sink := newTestRuntime(t)
	for _, id := range []uint64{9, 7, 8} {
		require.NoError(t, addQuest(rt, testOwner, id, "+"))
	}
	for _, id := range []uint64{8, 9, 7} {
		for i, solution := range answersOf(t, rt, id) {
			require.NoError(t, submit(rt, "alice", id, i, solution))
		}
	}
	assert.Equal(t, []uint64{8, 9, 7}, badgesOf(t, rt, "alice"))

	minted := sink.minted()
	require.Len(t, minted, 3)
	for i, badge := range minted {
		assert.Equal(t, uint64(i+1), badge.TokenID)
	}
}

func TestRuntime_AddQuestErrors(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, addQuest(rt, testOwner, 1, "+"))
	before := answersOf(t, rt, 1)

	t.Run("DuplicateID", func(t *testing.T) {
		err := addQuest(rt, testOwner, 1, "*")
		require.ErrorIs(t, err, util.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "Quest ID already exists")
		assert.Equal(t, before, answersOf(t, rt, 1))
	})

	t.Run("InvalidOperation", func(t *testing.T) {
		err := addQuest(rt, testOwner, 2, "%")
		require.ErrorIs(t, err, util.ErrInvalidOperation)

		_, err = rt.Query(context.Background(), &model.QueryMsg{GetQuest: &model.GetQuestQuery{ID: u64(2)}})
		assert.ErrorIs(t, err, util.ErrNotFound)
	})

	t.Run("NonOwnerCheckedFirst", func(t *testing.T) {
		err := addQuest(rt, "mallory", 1, "%")
		require.ErrorIs(t, err, util.ErrUnauthorized)
		assert.Contains(t, err.Error(), "Only the owner can add quests")
	})

	t.Run("EmptySender", func(t *testing.T) {
		assert.ErrorIs(t, addQuest(rt, "", 3, "+"), util.ErrUnauthorized)
		assert.ErrorIs(t, submit(rt, "", 1, 0, before[0]), util.ErrUnauthorized)
	})

	t.Run("NoRandomness", func(t *testing.T) {
		noEntropy := NewRuntime(rt.Store, rt.Dispatcher, random.FixedSource{})
		err := addQuest(noEntropy, testOwner, 4, "+")
		assert.ErrorIs(t, err, util.ErrNoRandomness)
	})
}

func TestRuntime_NotFound(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, addQuest(rt, testOwner, 1, "+"))

	err := submit(rt, "alice", 42, 0, 1)
	require.ErrorIs(t, err, util.ErrNotFound)
	assert.Contains(t, err.Error(), "Quest not found")

	for _, index := range []int{-1, 5, 100} {
		err = submit(rt, "alice", 1, index, 1)
		require.ErrorIs(t, err, util.ErrNotFound)
		assert.Contains(t, err.Error(), "Invalid sub-question index")

		_, err = rt.Query(context.Background(), &model.QueryMsg{
			GetQuest: &model.GetQuestQuery{ID: u64(1), SubQuestionIndex: intp(index)},
		})
		assert.ErrorIs(t, err, util.ErrNotFound)
	}
}

func TestRuntime_FailedMintRollsBackProgress(t *testing.T) {
	// 未实例化时无法读取 token 计数，第五题的提交整体回滚
	store := repository.NewMemoryStore()
	quest := &model.Quest{ID: 1, Operation: model.OpAdd}
	subs, err := HashOperandGenerator{}.Generate(testSeed, 1, model.OpAdd)
	require.NoError(t, err)
	quest.SubQuestions = subs
	require.NoError(t, store.Transaction(context.Background(), func(repos *repository.Repositories) error {
		return repos.Quests.Create(quest)
	}))

	sink := &recordingSink{}
	rt := NewRuntime(store, NewDispatcher(nil, ""), random.FixedSource{Seed: testSeed}, sink)
	for i := 0; i < 4; i++ {
		require.NoError(t, submit(rt, "alice", 1, i, subs[i].Answer))
	}
	err = submit(rt, "alice", 1, 4, subs[4].Answer)
	require.True(t, errors.Is(err, ErrNotInstantiated))

	assert.Equal(t, []bool{true, true, true, true, false}, progressOf(t, rt, "alice", 1))
	assert.Equal(t, []uint64{}, badgesOf(t, rt, "alice"))
	assert.Empty(t, sink.minted())
}

func TestRuntime_Instantiate(t *testing.T) {
	rt, _ := newTestRuntime(t)
	ctx := context.Background()

	owner, err := rt.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)

	err = rt.Instantiate(ctx, "someone", &model.InstantiateMsg{})
	assert.ErrorIs(t, err, util.ErrAlreadyExists)
	require.NoError(t, rt.EnsureInstantiated(ctx, "someone"))

	owner, err = rt.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)

	fresh := NewRuntime(repository.NewMemoryStore(), NewDispatcher(nil, ""), random.FixedSource{Seed: testSeed})
	_, err = fresh.Owner(ctx)
	assert.ErrorIs(t, err, ErrNotInstantiated)
	require.NoError(t, fresh.Instantiate(ctx, "sender", nil))
	owner, err = fresh.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sender", owner)
}

func TestRuntime_ExecuteRaw(t *testing.T) {
	rt, _ := newTestRuntime(t)
	ctx := context.Background()

	result, err := rt.ExecuteRaw(ctx, testOwner, []byte(`{"add_quest":{"id":1,"operation":"+"}}`))
	require.NoError(t, err)
	assert.NotEmpty(t, result.TxID)

	malformed := []string{
		`{}`,
		`not json`,
		`{"add_quest":{"id":1}}`,
		`{"add_quest":{"id":-1,"operation":"+"}}`,
		`{"add_quest":{"id":2,"operation":"+","extra":true}}`,
		`{"add_quest":{"id":2,"operation":"+"}} {}`,
		`{"add_quest":{"id":2,"operation":"+"},"submit_solution":{"quest_id":1,"sub_question_index":0,"solution":1}}`,
		`{"submit_solution":{"quest_id":1,"solution":1}}`,
		`{"burn":{}}`,
	}
	for _, raw := range malformed {
		_, err := rt.ExecuteRaw(ctx, testOwner, []byte(raw))
		assert.ErrorIs(t, err, util.ErrMalformed, raw)
	}

	answers := answersOf(t, rt, 1)
	raw := fmt.Sprintf(`{"submit_solution":{"quest_id":1,"sub_question_index":0,"solution":%d}}`, answers[0])
	_, err = rt.ExecuteRaw(ctx, "alice", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false, false, false}, progressOf(t, rt, "alice", 1))
}

func TestRuntime_QueryRaw(t *testing.T) {
	rt, _ := newTestRuntime(t)
	ctx := context.Background()
	require.NoError(t, addQuest(rt, testOwner, 1, "+"))

	answer, err := rt.QueryRaw(ctx, []byte(`{"get_quest":{"id":1,"sub_question_index":3}}`))
	require.NoError(t, err)
	assert.Equal(t, &model.SubQuestionAnswer{Operation: model.OpAdd, A: 39, B: 19}, answer)

	answer, err = rt.QueryRaw(ctx, []byte(`{"get_user_badges":{"user":"alice"}}`))
	require.NoError(t, err)
	assert.Equal(t, &model.BadgesAnswer{Badges: []uint64{}}, answer)

	for _, raw := range []string{
		`{"get_user_badges":{"user":""}}`,
		`{"get_user_badges":{}}`,
		`{"get_user_progress":{"user":"alice"}}`,
		`{"get_quest":{}}`,
		`{"get_quest":{"id":1},"get_user_badges":{"user":"alice"}}`,
	} {
		_, err := rt.QueryRaw(ctx, []byte(raw))
		assert.ErrorIs(t, err, util.ErrMalformed, raw)
	}
}

func TestRuntime_ConcurrentSubmissions(t *testing.T) {
	rt, sink := newTestRuntime(t)
	require.NoError(t, addQuest(rt, testOwner, 1, "*"))
	answers := answersOf(t, rt, 1)

	users := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8"}
	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			for i, solution := range answers {
				assert.NoError(t, submit(rt, user, 1, i, solution))
			}
		}(user)
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, badge := range sink.minted() {
		assert.False(t, seen[badge.TokenID], "token %d minted twice", badge.TokenID)
		seen[badge.TokenID] = true
	}
	assert.Len(t, seen, len(users))
	for _, user := range users {
		assert.Equal(t, []uint64{1}, badgesOf(t, rt, user))
	}
}
