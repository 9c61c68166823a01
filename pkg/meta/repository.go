package meta

import (
	"context"
	"errors"

	"photovault/pkg/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPhotoNotFound = errors.New("photo not found in catalog")

// Repository 封装所有对照片目录表的操作
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Record 记录一次成功的 save。
// (user_id, key) 冲突时做 Upsert——同名重传就是覆盖，目录里只保留最新一条。
func (r *Repository) Record(ctx context.Context, photo *PhotoModel) error {
	return r.db.GetConn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"provider", "locator", "size_bytes", "content_type", "meta", "updated_at",
			}),
		}).
		Create(photo).Error
}

// Remove 把 key 从目录里删掉。目录里本来没有也不算错
// (和存储后端的 delete 非致命约定保持一致)。
func (r *Repository) Remove(ctx context.Context, key types.Key, scope types.Scope) error {
	return r.db.GetConn().WithContext(ctx).
		Where("user_id = ? AND key = ?", scope.String(), key.String()).
		Delete(&PhotoModel{}).Error
}

// Get 查单条记录
func (r *Repository) Get(ctx context.Context, key types.Key, scope types.Scope) (*PhotoModel, error) {
	var photo PhotoModel
	err := r.db.GetConn().WithContext(ctx).
		Where("user_id = ? AND key = ?", scope.String(), key.String()).
		First(&photo).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// ListByUser 列出一个用户的所有照片，新的在前
func (r *Repository) ListByUser(ctx context.Context, scope types.Scope) ([]PhotoModel, error) {
	var photos []PhotoModel
	err := r.db.GetConn().WithContext(ctx).
		Where("user_id = ?", scope.String()).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}
