package database

import (
	"testing"

	"math_quest_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:      "db",
		Port:      3306,
		User:      "quest",
		Password:  "pw",
		DBName:    "math_quest",
		Charset:   "utf8mb4",
		ParseTime: true,
	}
	assert.Equal(t, "quest:pw@tcp(db:3306)/math_quest?charset=utf8mb4&parseTime=true&loc=Local", DSN(cfg))
}

func TestInitRedisDisabled(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, rdb)
}
