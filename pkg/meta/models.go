package meta

import (
	"time"

	"gorm.io/datatypes"
)

// PhotoModel 是存储层在关系型数据库里的投影：
// 每一次成功的 save 记一行，记录对象现在在哪 (Locator)。
// (user_id, key) 联合唯一——同一个用户重传同名文件就是覆盖。
type PhotoModel struct {
	ID uint `gorm:"primaryKey"`

	// UserID 对应存储层的 Scope。空串表示无 scope 的系统对象。
	UserID string `gorm:"uniqueIndex:idx_photos_user_key;type:varchar(64)"`
	Key    string `gorm:"uniqueIndex:idx_photos_user_key;type:varchar(255);not null"`

	// Provider 记录对象落在哪个后端 ("local"/"s3"/"gcs")，
	// 路由配置变了之后还能找到旧对象
	Provider string `gorm:"type:varchar(16)"`

	// Locator 是 save 返回的 URI (file:// 或 https://)
	Locator string `gorm:"type:text;not null"`

	SizeBytes   int64
	ContentType string `gorm:"type:varchar(128)"`

	// Meta: 自由格式的照片元数据 (EXIF 摘要、人物标签等)
	Meta datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 强制指定表名
func (PhotoModel) TableName() string {
	return "photos"
}
