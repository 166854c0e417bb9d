package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ===== スキーマ定義（AutoMigrate専用。読み書きは各featureのstoreが database/sql で行う） =====

type userTable struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement"`
	Username      string     `gorm:"size:64;not null;uniqueIndex:uq_users_username"`
	Password      string     `gorm:"size:255;not null"`
	Role          string     `gorm:"size:16;not null;default:INTERN;index:idx_users_role"`
	DateOfBirth   *time.Time `gorm:"type:date"`
	Sekolah       string     `gorm:"size:128;not null;default:''"`
	Jurusan       string     `gorm:"size:128;not null;default:''"`
	TanggalMasuk  *time.Time `gorm:"type:date"`
	TanggalKeluar *time.Time `gorm:"type:date"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (userTable) TableName() string { return "users" }

type taskTable struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"`
	Title       string     `gorm:"size:255;not null"`
	Description string     `gorm:"type:text;not null"`
	Deadline    time.Time  `gorm:"type:date;not null"`
	Status      string     `gorm:"size:32;not null;index:idx_tasks_status"`
	AssignedTo  *uint64    `gorm:"index:idx_tasks_assigned_to"`
	Assignee    *userTable `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskTable) TableName() string { return "tasks" }

// 1ユーザー1日1行
type attendanceTable struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;uniqueIndex:uq_attendances_user_day,priority:1"`
	AttendedOn time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendances_user_day,priority:2;index:idx_attendances_day"`
	Status     string    `gorm:"size:32;not null"`
	User       userTable `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (attendanceTable) TableName() string { return "attendances" }

// 1ユーザー1日1行（同日の再提出は上書き）
type activityTable struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"`
	UserID      uint64     `gorm:"not null;uniqueIndex:uq_activities_user_day,priority:1"`
	ReportedOn  time.Time  `gorm:"type:date;not null;uniqueIndex:uq_activities_user_day,priority:2"`
	Description string     `gorm:"type:text;not null"`
	Status      string     `gorm:"size:32;not null"`
	TaskID      *uint64    `gorm:"index:idx_activities_task"`
	User        userTable  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Task        *taskTable `gorm:"foreignKey:TaskID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (activityTable) TableName() string { return "activities" }

// Migrate は既存の *sql.DB を gorm に渡してテーブルを作成・追従させる。
func Migrate(ctx context.Context, sqlDB *sql.DB, logSQL bool) error {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	if logSQL {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: sqlDB}), gcfg)
	if err != nil {
		return fmt.Errorf("gorm open: %w", err)
	}

	if err := gdb.WithContext(ctx).AutoMigrate(
		&userTable{},
		&taskTable{},
		&attendanceTable{},
		&activityTable{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
