package storage

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// KV is the local fallback store: a synchronous string key-value store. Each
// entity collection is serialized as one JSON array under a fixed key, plus
// one key for the cached current user and one for the recruitment-open flag.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

const (
	keyUsers           = "garage_users"
	keySessions        = "garage_recruitment_sessions"
	keyApplications    = "garage_applications"
	keyTeamMembers     = "garage_team_members"
	keyReviews         = "garage_client_reviews"
	keyAppointments    = "garage_appointments"
	keyPartners        = "garage_partners"
	keyCurrentUser     = "garage_current_user"
	keyRecruitmentOpen = "garage_recruitment_open"
)

type kvRow struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (kvRow) TableName() string {
	return "kv"
}

// SQLiteKV persists the fallback key-value pairs in an embedded SQLite file
// so they survive restarts just like the original's browser-local storage.
type SQLiteKV struct {
	db *gorm.DB
}

func NewSQLiteKV(path string) (*SQLiteKV, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := db.AutoMigrate(&kvRow{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

func (s *SQLiteKV) Get(key string) (string, bool, error) {
	var row kvRow
	err := s.db.Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *SQLiteKV) Set(key, value string) error {
	return s.db.Save(&kvRow{Key: key, Value: value}).Error
}

func (s *SQLiteKV) Remove(key string) error {
	return s.db.Delete(&kvRow{}, "key = ?", key).Error
}
