// 手动导入任务脚本
//
// 读取 YAML 种子文件，以配置中的合约所有者身份逐条创建任务，已存在的任务跳过。
//
// 用法: go run scripts/seed_quests.go -file configs/quests.yaml

package main

import (
	"context"
	"flag"
	"log"
	"math_quest_backend/internal/config"
	"math_quest_backend/internal/repository"
	"math_quest_backend/internal/service"
	"math_quest_backend/internal/util"
	"math_quest_backend/pkg/database"
	"math_quest_backend/pkg/logger"
	"math_quest_backend/pkg/random"
	"os"
)

func main() {
	file := flag.String("file", "configs/quests.yaml", "任务种子文件")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	if cfg.Ledger.Store != util.StoreMySQL {
		log.Fatalf("内存存储无法持久化导入的任务")
	}

	logger.InitLogger(cfg)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("无法读取种子文件: %v", err)
	}
	seeds, err := service.ParseQuestSeeds(data)
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	runtime := service.NewRuntime(
		repository.NewGormStore(db),
		service.NewDispatcher(service.HashOperandGenerator{}, cfg.Ledger.BadgeURIPrefix),
		random.CryptoSource{},
	)
	ctx := context.Background()
	if err := runtime.EnsureInstantiated(ctx, cfg.Ledger.Owner); err != nil {
		log.Fatalf("合约实例化失败: %v", err)
	}
	owner, err := runtime.Owner(ctx)
	if err != nil {
		log.Fatalf("读取合约所有者失败: %v", err)
	}

	added, err := runtime.SeedQuests(ctx, owner, seeds)
	if err != nil {
		log.Fatalf("导入失败（已导入 %d 条）: %v", added, err)
	}
	log.Printf("完成！新增 %d 条任务，共 %d 条", added, len(seeds))
}
