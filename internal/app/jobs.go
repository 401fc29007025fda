package app

import (
	"time"

	"github.com/craftline/wardrobe/internal/domain"
	"go.uber.org/zap"
)

// SchedulerTask is a cron job with a panic guard, matching the scheduler
// registration below.
type SchedulerTask func()

func guarded(name string, task SchedulerTask) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				zap.S().Errorf("job %s panic: %v", name, r)
			}
		}()
		task()
	}
}

// StartScheduler registers the periodic jobs and starts the cron loop.
func (a *Application) StartScheduler() {
	_, _ = a.sched.AddFunc("@every 5m", guarded("expire-checkouts", a.expireStaleCheckouts))
	_, _ = a.sched.AddFunc("@daily", guarded("purge-opr-logs", a.purgeOprLogs))
	a.sched.Start()
	zap.S().Info("scheduler started")
}

// expireStaleCheckouts fails checkouts whose payment never arrived and
// releases their measurement slots so the pair becomes bookable again.
func (a *Application) expireStaleCheckouts() {
	expireMin := a.settings.GetInt(domain.ConfigCheckoutExpireMin)
	if expireMin <= 0 {
		expireMin = 30
	}
	cutoff := time.Now().Add(-time.Duration(expireMin) * time.Minute)

	var stale []domain.Order
	err := a.gormDB.
		Where("payment_status = ? AND status = ? AND created_at < ?",
			domain.PaymentStatusPending, domain.OrderStatusPending, cutoff).
		Find(&stale).Error
	if err != nil {
		zap.S().Errorf("expire checkouts query: %s", err)
		return
	}
	for _, o := range stale {
		tx := a.gormDB.Begin()
		if err := tx.Model(&domain.Order{}).Where("id = ?", o.ID).
			Updates(map[string]interface{}{
				"status":         domain.OrderStatusCancelled,
				"payment_status": domain.PaymentStatusFailed,
			}).Error; err != nil {
			tx.Rollback()
			zap.S().Errorf("expire order %d: %s", o.ID, err)
			continue
		}
		if err := tx.Where("order_id = ?", o.ID).
			Delete(&domain.SlotReservation{}).Error; err != nil {
			tx.Rollback()
			zap.S().Errorf("release slot for order %d: %s", o.ID, err)
			continue
		}
		tx.Commit()
		zap.S().Infof("expired unpaid checkout %d", o.ID)
	}
}

func (a *Application) purgeOprLogs() {
	cutoff := time.Now().AddDate(0, -3, 0)
	result := a.gormDB.Where("created_at < ?", cutoff).Delete(&domain.SysOprLog{})
	if result.Error != nil {
		zap.S().Errorf("purge opr logs: %s", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		zap.S().Infof("purged %d operation logs", result.RowsAffected)
	}
}
