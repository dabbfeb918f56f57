// Package testutil 测试共用的数据库与数据构造工具
package testutil

import (
	"fmt"
	"testing"
	"time"

	"skill-swap/config"
	"skill-swap/internal/model"
	"skill-swap/pkg/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteDB 创建独立的内存 SQLite 数据库并完成迁移
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:skillswap_%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(config.DatabaseConfig{Driver: "sqlite", Database: dsn, MaxOpen: 1})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// CreateUser 插入一个测试用户
func CreateUser(t testing.TB, gdb *gorm.DB, username, name string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Name: name, PasswordHash: "x"}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

// CreateSkill 插入一条测试技能
func CreateSkill(t testing.TB, gdb *gorm.DB, owner uint, title, category string, typ model.SkillType) *model.Skill {
	t.Helper()
	s := &model.Skill{UserID: owner, Title: title, Description: title + " description", Category: category, Type: typ}
	require.NoError(t, gdb.Create(s).Error)
	return s
}
