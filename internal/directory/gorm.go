package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cardpark/internal/domain"
	"cardpark/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormDirectory backs the directory with a relational table through
// GORM (sqlite or postgres).
type GormDirectory struct{ db *gorm.DB }

func NewGormDirectory(db *gorm.DB) *GormDirectory { return &GormDirectory{db: db} }

// OpenGorm opens the configured relational backend and migrates the
// access code table.
func OpenGorm(backend, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	var (
		db  *gorm.DB
		err error
	)
	switch backend {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported directory backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s directory: %w", backend, err)
	}
	if err := db.AutoMigrate(&domain.AccessCode{}); err != nil {
		return nil, fmt.Errorf("migrate access codes: %w", err)
	}
	return db, nil
}

func (d *GormDirectory) Get(ctx context.Context, code string) (*domain.AccessCode, error) {
	var rec domain.AccessCode
	err := d.db.WithContext(ctx).Where("code = ?", code).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordDirectoryOperation(ctx, "gorm", "get", "not_found")
			return nil, ErrCodeNotFound
		}
		observability.RecordDirectoryOperation(ctx, "gorm", "get", "error")
		return nil, err
	}
	observability.RecordDirectoryOperation(ctx, "gorm", "get", "success")
	return &rec, nil
}

func (d *GormDirectory) Claim(ctx context.Context, code string, p domain.Profile, at time.Time) (*domain.AccessCode, error) {
	res := d.db.WithContext(ctx).Model(&domain.AccessCode{}).
		Where("code = ? AND is_used = ?", code, false).
		Updates(claimColumns(p, at))
	if res.Error != nil {
		if isDuplicateEmail(res.Error) {
			observability.RecordDirectoryOperation(ctx, "gorm", "claim", "duplicate_email")
			return nil, ErrDuplicateEmail
		}
		observability.RecordDirectoryOperation(ctx, "gorm", "claim", "error")
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// The guard did not match: either the code never existed or a
		// concurrent claim won the race.
		var rec domain.AccessCode
		err := d.db.WithContext(ctx).Where("code = ?", code).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordDirectoryOperation(ctx, "gorm", "claim", "not_found")
			return nil, ErrCodeNotFound
		}
		if err != nil {
			observability.RecordDirectoryOperation(ctx, "gorm", "claim", "error")
			return nil, err
		}
		observability.RecordDirectoryOperation(ctx, "gorm", "claim", "already_claimed")
		return nil, ErrAlreadyClaimed
	}
	rec, err := d.Get(ctx, code)
	if err != nil {
		observability.RecordDirectoryOperation(ctx, "gorm", "claim", "error")
		return nil, err
	}
	observability.RecordDirectoryOperation(ctx, "gorm", "claim", "success")
	return rec, nil
}

// Provision inserts a vacant slot. Dev and test use only.
func (d *GormDirectory) Provision(ctx context.Context, code string) error {
	err := d.db.WithContext(ctx).Create(&domain.AccessCode{Code: code}).Error
	if err != nil {
		observability.RecordDirectoryOperation(ctx, "gorm", "provision", "error")
		return err
	}
	observability.RecordDirectoryOperation(ctx, "gorm", "provision", "success")
	return nil
}

func (d *GormDirectory) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isDuplicateEmail(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
