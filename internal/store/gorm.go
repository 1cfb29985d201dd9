package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"lovereel/internal/model"
)

// gormWriter 把 gorm 的慢查询和错误日志转到 logrus
type gormWriter struct {
	log logrus.FieldLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " "))
}

func newGormLogger(logg logrus.FieldLogger) gormLogger.Interface {
	if logg == nil {
		logg = logrus.StandardLogger()
	}
	return gormLogger.New(
		gormWriter{log: logg.WithField("component", "gorm")},
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// storyRow 数据库中的故事记录
type storyRow struct {
	ID        string                                   `gorm:"primaryKey;size:24"`
	Meta      datatypes.JSONType[model.CreationRequest] `gorm:"not null"`
	Content   datatypes.JSONType[model.Content]         `gorm:"not null"`
	AccessKey string                                   `gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time
}

func (storyRow) TableName() string { return "stories" }

// GormStore 基于 gorm 的故事存储，支持 sqlite 和 postgres
type GormStore struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// OpenGorm opens the database for driver ("sqlite" or "postgres") and
// migrates the stories table.
func OpenGorm(driver, dsn string, logg logrus.FieldLogger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(logg)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return NewGormStore(db, logg)
}

func NewGormStore(db *gorm.DB, logg logrus.FieldLogger) (*GormStore, error) {
	if logg == nil {
		logg = logrus.StandardLogger()
	}
	if err := db.AutoMigrate(&storyRow{}); err != nil {
		return nil, fmt.Errorf("migrate stories: %w", err)
	}
	return &GormStore{db: db, log: logg.WithField("component", "gorm_store")}, nil
}

func (s *GormStore) Put(ctx context.Context, req model.CreationRequest, content model.Content) (string, error) {
	key, err := NewAccessKey()
	if err != nil {
		return "", fmt.Errorf("generate access key: %w", err)
	}
	row := storyRow{
		ID:        NewID(),
		Meta:      datatypes.NewJSONType(req),
		Content:   datatypes.NewJSONType(content),
		AccessKey: key,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.log.WithFields(logrus.Fields{"story_id": row.ID, "error": err}).Error("insert story failed")
		return "", fmt.Errorf("insert story: %w", err)
	}
	return row.ID, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*model.StoredStory, bool, error) {
	if !ValidID(id) {
		return nil, false, nil
	}
	var row storyRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load story %s: %w", id, err)
	}
	return &model.StoredStory{
		ID:        row.ID,
		Request:   row.Meta.Data(),
		Content:   row.Content.Data(),
		AccessKey: row.AccessKey,
		CreatedAt: row.CreatedAt,
	}, true, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Gateway = (*GormStore)(nil)
