package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"math_quest_backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestGormQuestRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "operation", "sub_questions", "created_at"}).
			AddRow(3, "-", `[{"a":9,"b":4,"answer":5}]`, time.Now())
		mock.ExpectQuery("SELECT \\* FROM `quests` WHERE id = \\?").
			WillReturnRows(rows)

		quest, err := repo.FindByID(3)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), quest.ID)
		assert.Equal(t, model.OpSub, quest.Operation)
		require.Len(t, quest.SubQuestions, 1)
		assert.Equal(t, uint64(5), quest.SubQuestions[0].Answer)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM `quests` WHERE id = \\?").
			WillReturnRows(sqlmock.NewRows([]string{"id", "operation", "sub_questions", "created_at"}))

		_, err := repo.FindByID(42)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormQuestRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQuestRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `quests` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	exists, err := repo.Exists(1)
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBadgeRepository_FindByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBadgeRepository(db)

	rows := sqlmock.NewRows([]string{"token_id", "owner", "quest_id", "token_uri", "created_at"}).
		AddRow(1, "alice", 2, "ipfs://math_quest/+/1", time.Now()).
		AddRow(4, "alice", 7, "ipfs://math_quest/*/4", time.Now())
	mock.ExpectQuery("SELECT \\* FROM `badges` WHERE owner = \\? ORDER BY token_id asc").
		WithArgs("alice").
		WillReturnRows(rows)

	badges, err := repo.FindByOwner("alice")
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, uint64(2), badges[0].QuestID)
	assert.Equal(t, uint64(7), badges[1].QuestID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Transaction(t *testing.T) {
	t.Run("Commit", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewGormStore(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `quests`").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO `user_progresses`").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := store.Transaction(context.Background(), func(repos *Repositories) error {
			if err := repos.Quests.Create(&model.Quest{ID: 1, Operation: model.OpAdd, SubQuestions: []model.SubQuestion{{A: 1, B: 2, Answer: 3}}}); err != nil {
				return err
			}
			return repos.Progress.Save(&model.UserProgress{User: "alice", QuestID: 1, Answered: []bool{true, false, false, false, false}})
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback", func(t *testing.T) {
		db, mock := newMockDB(t)
		store := NewGormStore(db)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `user_progresses`").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectRollback()

		err := store.Transaction(context.Background(), func(repos *Repositories) error {
			if err := repos.Progress.Save(&model.UserProgress{User: "alice", QuestID: 1, Answered: []bool{true, true, true, true, true}}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
