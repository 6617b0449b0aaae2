package psql

import (
	"context"

	"gorm.io/gorm"

	"floatchat/internal/domain/entity"
)

type GormChatRepo struct {
	DB *gorm.DB
}

func NewGormChatRepo(db *gorm.DB) *GormChatRepo {
	return &GormChatRepo{DB: db}
}

func (r *GormChatRepo) SaveRecord(ctx context.Context, record *entity.ChatRecord) error {
	return r.DB.WithContext(ctx).Create(record).Error
}

// History returns the newest records first, optionally narrowed by a
// case-insensitive keyword over both sides of the exchange.
func (r *GormChatRepo) History(ctx context.Context, sessionID, keyword string, limit int) ([]entity.ChatRecord, error) {
	q := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit)

	if keyword != "" {
		pattern := "%" + keyword + "%"
		q = q.Where("user_message ILIKE ? OR bot_response ILIKE ?", pattern, pattern)
	}

	var records []entity.ChatRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *GormChatRepo) Clear(ctx context.Context, sessionID string) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&entity.ChatRecord{})
	return res.RowsAffected, res.Error
}
