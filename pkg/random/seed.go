// Package random 为账本执行环境提供区块随机数。
//
// 生产环境使用 crypto/rand；测试注入固定种子，使生成的题目可复现。
package random

import (
	crand "crypto/rand"
	"errors"
	"fmt"
)

// SeedSize 每次执行提供的随机字节数
const SeedSize = 32

// Source 每次执行调用一次
type Source interface {
	Random() ([]byte, error)
}

// CryptoSource 基于 crypto/rand
type CryptoSource struct{}

func (CryptoSource) Random() ([]byte, error) {
	b := make([]byte, SeedSize)
	if _, err := crand.Read(b); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return b, nil
}

// FixedSource 始终返回同一个种子
type FixedSource struct {
	Seed []byte
}

func (s FixedSource) Random() ([]byte, error) {
	if len(s.Seed) == 0 {
		return nil, errors.New("fixed seed is empty")
	}
	return append([]byte(nil), s.Seed...), nil
}
