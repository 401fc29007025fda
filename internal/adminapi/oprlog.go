package adminapi

import (
	"context"
	"fmt"

	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/webserver"
	"github.com/craftline/wardrobe/pkg/common"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OprLogRepository records admin mutations for the audit trail.
type OprLogRepository interface {
	Record(ctx context.Context, entry *domain.SysOprLog) error
}

type gormOprLogRepository struct {
	db *gorm.DB
}

func NewGormOprLogRepository(db *gorm.DB) OprLogRepository {
	return &gormOprLogRepository{db: db}
}

func (r *gormOprLogRepository) Record(ctx context.Context, entry *domain.SysOprLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// logOperation writes an audit row for a mutating admin call. Failures are
// logged and swallowed; auditing never blocks the mutation itself.
func (h *Handler) logOperation(c echo.Context, action, desc string) {
	if h.oprlogs == nil {
		return
	}
	entry := &domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   fmt.Sprintf("admin:%d", webserver.UserID(c)),
		OprIP:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
	}
	if err := h.oprlogs.Record(c.Request().Context(), entry); err != nil {
		zap.S().Errorf("record admin operation %s: %s", action, err)
	}
}
