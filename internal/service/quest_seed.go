package service

import (
	"context"
	"errors"
	"fmt"

	"math_quest_backend/internal/model"
	"math_quest_backend/internal/util"
	"math_quest_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// QuestSeed 种子文件中的一条任务
type QuestSeed struct {
	ID        uint64 `yaml:"id"`
	Operation string `yaml:"operation"`
}

type questSeedFile struct {
	Quests []QuestSeed `yaml:"quests"`
}

func ParseQuestSeeds(data []byte) ([]QuestSeed, error) {
	var file questSeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse quest seeds: %w", err)
	}
	seen := make(map[uint64]bool, len(file.Quests))
	for _, seed := range file.Quests {
		if seen[seed.ID] {
			return nil, fmt.Errorf("parse quest seeds: duplicate id %d", seed.ID)
		}
		seen[seed.ID] = true
	}
	return file.Quests, nil
}

// SeedQuests 以所有者身份逐条执行 add_quest，已存在的任务跳过
func (r *Runtime) SeedQuests(ctx context.Context, owner string, seeds []QuestSeed) (int, error) {
	added := 0
	for _, seed := range seeds {
		id, op := seed.ID, seed.Operation
		_, err := r.Execute(ctx, owner, &model.ExecuteMsg{
			AddQuest: &model.AddQuestMsg{ID: &id, Operation: &op},
		})
		if errors.Is(err, util.ErrAlreadyExists) {
			logger.Log.Info("quest already exists, skipped", zap.Uint64("quest_id", id))
			continue
		}
		if err != nil {
			return added, fmt.Errorf("seed quest %d: %w", id, err)
		}
		added++
	}
	return added, nil
}
