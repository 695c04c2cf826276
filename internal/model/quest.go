package model

import (
	"time"

	"gorm.io/datatypes"
)

// Operation 任务使用的四则运算符
type Operation string

const (
	OpAdd Operation = "+"
	OpSub Operation = "-"
	OpMul Operation = "*"
	OpDiv Operation = "/"
)

func (o Operation) Valid() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// Apply 计算 a <op> b，调用前需保证运算合法（除数非零）
func (o Operation) Apply(a, b uint64) uint64 {
	switch o {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	}
	return 0
}

type SubQuestion struct {
	A      uint64 `json:"a"`
	B      uint64 `json:"b"`
	Answer uint64 `json:"answer"`
}

// Quest 创建后不可修改
type Quest struct {
	ID           uint64                           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Operation    Operation                        `gorm:"size:1;not null" json:"operation"`
	SubQuestions datatypes.JSONSlice[SubQuestion] `gorm:"not null" json:"sub_questions"`
	CreatedAt    time.Time                        `json:"createdAt"`
}

func (Quest) TableName() string {
	return "quests"
}
