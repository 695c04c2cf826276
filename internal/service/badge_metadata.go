package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"math_quest_backend/internal/model"
	"math_quest_backend/pkg/logger"

	"go.uber.org/zap"
)

// BadgeMetadata 徽章对应的 NFT 元数据
type BadgeMetadata struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	TokenID     uint64            `json:"token_id"`
	TokenURI    string            `json:"token_uri"`
	Owner       string            `json:"owner"`
	QuestID     uint64            `json:"quest_id"`
	Attributes  map[string]string `json:"attributes"`
}

func NewBadgeMetadata(badge model.Badge) BadgeMetadata {
	return BadgeMetadata{
		Name:        fmt.Sprintf("Math Quest #%d", badge.QuestID),
		Description: fmt.Sprintf("Awarded for solving every sub-question of quest %d", badge.QuestID),
		TokenID:     badge.TokenID,
		TokenURI:    badge.TokenURI,
		Owner:       badge.Owner,
		QuestID:     badge.QuestID,
		Attributes:  map[string]string{
			"quest_id": fmt.Sprint(badge.QuestID),
		},
	}
}

func BadgeMetadataKey(tokenID uint64) string {
	return fmt.Sprintf("badges/%d.json", tokenID)
}

// BadgeMetadataPublisher 提交后异步上传元数据，失败只记录日志
type BadgeMetadataPublisher struct {
	Uploader ObjectUploader
	Timeout  time.Duration

	wg sync.WaitGroup
}

func NewBadgeMetadataPublisher(uploader ObjectUploader) *BadgeMetadataPublisher {
	return &BadgeMetadataPublisher{
		Uploader: uploader,
		Timeout:  10 * time.Second,
	}
}

func (p *BadgeMetadataPublisher) BadgeMinted(_ context.Context, badge model.Badge) {
	data, err := json.Marshal(NewBadgeMetadata(badge))
	if err != nil {
		logger.Log.Error("marshal badge metadata", zap.Uint64("token_id", badge.TokenID), zap.Error(err))
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// 请求上下文可能已结束，上传使用独立的超时
		ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
		defer cancel()

		key := BadgeMetadataKey(badge.TokenID)
		if err := p.Uploader.PutObject(ctx, key, data, "application/json"); err != nil {
			logger.Log.Error("upload badge metadata", zap.String("key", key), zap.Error(err))
			return
		}
		logger.Log.Debug("badge metadata uploaded", zap.String("key", key))
	}()
}

// Wait 等待进行中的上传，关闭服务时调用
func (p *BadgeMetadataPublisher) Wait() {
	p.wg.Wait()
}
