package service

import (
	"crypto/sha256"
	"encoding/binary"

	"math_quest_backend/internal/model"
	"math_quest_backend/internal/util"
)

// OperandGenerator 给定种子时结果确定，测试可断言具体的操作数
type OperandGenerator interface {
	Generate(seed []byte, questID uint64, op model.Operation) ([]model.SubQuestion, error)
}

// HashOperandGenerator 对 seed||id||op||index 做 SHA-256，取前 16 字节作为两个操作数的来源
type HashOperandGenerator struct{}

func (HashOperandGenerator) Generate(seed []byte, questID uint64, op model.Operation) ([]model.SubQuestion, error) {
	if len(seed) == 0 {
		return nil, util.Errorf(util.ErrNoRandomness, "No randomness available")
	}
	if !op.Valid() {
		return nil, util.Errorf(util.ErrInvalidOperation, "Invalid operation")
	}

	var id [8]byte
	binary.BigEndian.PutUint64(id[:], questID)

	subQuestions := make([]model.SubQuestion, 0, util.SubQuestionCount)
	for i := 0; i < util.SubQuestionCount; i++ {
		h := sha256.New()
		h.Write(seed)
		h.Write(id[:])
		h.Write([]byte(op))
		h.Write([]byte{byte(i)})
		sum := h.Sum(nil)

		aPart := binary.LittleEndian.Uint64(sum[0:8])
		bPart := binary.LittleEndian.Uint64(sum[8:16])
		a, b := operands(op, aPart, bPart)

		subQuestions = append(subQuestions, model.SubQuestion{
			A:      a,
			B:      b,
			Answer: op.Apply(a, b),
		})
	}
	return subQuestions, nil
}

func operands(op model.Operation, aPart, bPart uint64) (uint64, uint64) {
	switch op {
	case model.OpSub:
		a, b := aPart%100+1, bPart%100+1
		// 保证差非负
		if a < b {
			a, b = b, a
		}
		return a, b
	case model.OpDiv:
		// 除数 1-10，a 为其 1-10 倍，商必为整数
		b := bPart%10 + 1
		k := aPart%10 + 1
		return b * k, b
	default:
		return aPart%100 + 1, bPart%100 + 1
	}
}
