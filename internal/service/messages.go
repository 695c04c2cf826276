package service

import (
	"bytes"
	"encoding/json"
	"io"

	"math_quest_backend/internal/model"
	"math_quest_backend/internal/util"
)

// decodeStrict 拒绝未知字段和多余内容
func decodeStrict(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return util.Errorf(util.ErrMalformed, "invalid message: %v", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return util.Errorf(util.ErrMalformed, "invalid message: trailing data")
	}
	return nil
}

func missingField(name string) error {
	return util.Errorf(util.ErrMalformed, "missing field `%s`", name)
}

func DecodeInstantiateMsg(raw []byte) (*model.InstantiateMsg, error) {
	var msg model.InstantiateMsg
	if err := decodeStrict(raw, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func DecodeExecuteMsg(raw []byte) (*model.ExecuteMsg, error) {
	var msg model.ExecuteMsg
	if err := decodeStrict(raw, &msg); err != nil {
		return nil, err
	}
	if err := ValidateExecuteMsg(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ValidateExecuteMsg 恰好一个变体且必填字段齐全
func ValidateExecuteMsg(msg *model.ExecuteMsg) error {
	n := 0
	if msg.AddQuest != nil {
		n++
		if msg.AddQuest.ID == nil {
			return missingField("id")
		}
		if msg.AddQuest.Operation == nil {
			return missingField("operation")
		}
	}
	if msg.SubmitSolution != nil {
		n++
		s := msg.SubmitSolution
		if s.QuestID == nil {
			return missingField("quest_id")
		}
		if s.SubQuestionIndex == nil {
			return missingField("sub_question_index")
		}
		if s.Solution == nil {
			return missingField("solution")
		}
	}
	if n != 1 {
		return util.Errorf(util.ErrMalformed, "expected exactly one of add_quest, submit_solution")
	}
	return nil
}

func DecodeQueryMsg(raw []byte) (*model.QueryMsg, error) {
	var msg model.QueryMsg
	if err := decodeStrict(raw, &msg); err != nil {
		return nil, err
	}
	if err := ValidateQueryMsg(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func ValidateQueryMsg(msg *model.QueryMsg) error {
	n := 0
	if msg.GetQuest != nil {
		n++
		if msg.GetQuest.ID == nil {
			return missingField("id")
		}
	}
	if msg.GetUserBadges != nil {
		n++
		if msg.GetUserBadges.User == nil || *msg.GetUserBadges.User == "" {
			return missingField("user")
		}
	}
	if msg.GetUserProgress != nil {
		n++
		if msg.GetUserProgress.User == nil || *msg.GetUserProgress.User == "" {
			return missingField("user")
		}
		if msg.GetUserProgress.QuestID == nil {
			return missingField("quest_id")
		}
	}
	if n != 1 {
		return util.Errorf(util.ErrMalformed, "expected exactly one of get_quest, get_user_badges, get_user_progress")
	}
	return nil
}

// ExecuteMsgName 用于日志和指标标签
func ExecuteMsgName(msg *model.ExecuteMsg) string {
	switch {
	case msg == nil:
		return "unknown"
	case msg.AddQuest != nil:
		return "add_quest"
	case msg.SubmitSolution != nil:
		return "submit_solution"
	}
	return "unknown"
}

func QueryMsgName(msg *model.QueryMsg) string {
	switch {
	case msg == nil:
		return "unknown"
	case msg.GetQuest != nil:
		return "get_quest"
	case msg.GetUserBadges != nil:
		return "get_user_badges"
	case msg.GetUserProgress != nil:
		return "get_user_progress"
	}
	return "unknown"
}
