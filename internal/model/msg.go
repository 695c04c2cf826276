package model

// 消息字段均为指针，用于区分缺失字段与零值

type InstantiateMsg struct {
	Owner *string `json:"owner,omitempty"`
}

type ExecuteMsg struct {
	AddQuest       *AddQuestMsg       `json:"add_quest,omitempty"`
	SubmitSolution *SubmitSolutionMsg `json:"submit_solution,omitempty"`
}

type AddQuestMsg struct {
	ID        *uint64 `json:"id"`
	Operation *string `json:"operation"`
}

type SubmitSolutionMsg struct {
	QuestID          *uint64 `json:"quest_id"`
	SubQuestionIndex *int    `json:"sub_question_index"`
	Solution         *uint64 `json:"solution"`
}

type QueryMsg struct {
	GetQuest        *GetQuestQuery        `json:"get_quest,omitempty"`
	GetUserBadges   *GetUserBadgesQuery   `json:"get_user_badges,omitempty"`
	GetUserProgress *GetUserProgressQuery `json:"get_user_progress,omitempty"`
}

type GetQuestQuery struct {
	ID *uint64 `json:"id"`
	// 缺省时返回全部子题
	SubQuestionIndex *int `json:"sub_question_index,omitempty"`
}

type GetUserBadgesQuery struct {
	User *string `json:"user"`
}

type GetUserProgressQuery struct {
	User    *string `json:"user"`
	QuestID *uint64 `json:"quest_id"`
}

// SubQuestionAnswer get_quest 指定子题时的响应
type SubQuestionAnswer struct {
	Operation Operation `json:"operation"`
	A         uint64    `json:"a"`
	B         uint64    `json:"b"`
}

// QuestAnswer get_quest 未指定子题时的响应
type QuestAnswer struct {
	SubQuestions []SubQuestionAnswer `json:"sub_questions"`
}

type BadgesAnswer struct {
	Badges []uint64 `json:"badges"`
}

type ProgressAnswer struct {
	Progress []bool `json:"progress"`
}

// ExecuteResult 执行成功时的响应，业务数据需要重新查询
type ExecuteResult struct {
	TxID string `json:"tx_id"`
}
