package app

import (
	"fmt"
	"time"

	"github.com/craftline/wardrobe/config"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getDatabase(cfg *config.AppConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Passwd, cfg.Database.Name, cfg.System.Location)

	loglevel := logger.Silent
	if cfg.System.Debug {
		loglevel = logger.Info
	}
	// TranslateError maps driver duplicate-key failures to
	// gorm.ErrDuplicatedKey, which the slot registry relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(loglevel),
	})
	if err != nil {
		zap.S().Fatalf("connect database: %s", err)
	}
	sqldb, err := db.DB()
	if err != nil {
		zap.S().Fatalf("database pool: %s", err)
	}
	sqldb.SetMaxOpenConns(cfg.Database.MaxConn)
	sqldb.SetMaxIdleConns(cfg.Database.IdleConn)
	sqldb.SetConnMaxLifetime(time.Hour)
	return db
}

func (a *Application) MigrateDB() {
	if err := a.gormDB.AutoMigrate(domain.Tables...); err != nil {
		zap.S().Fatalf("migrate database: %s", err)
	}
	zap.S().Info("database migrated")
}

// checkSuper seeds the admin account on first boot.
func (a *Application) checkSuper() {
	var count int64
	a.gormDB.Model(&domain.User{}).Where("level = ?", domain.UserLevelAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("Wardrobe@2024"), bcrypt.DefaultCost)
	if err != nil {
		zap.S().Errorf("seed admin: %s", err)
		return
	}
	admin := domain.User{
		ID:       common.UUIDint64(),
		Email:    "admin@wardrobe.local",
		Password: string(hash),
		Name:     "Administrator",
		Level:    domain.UserLevelAdmin,
		Status:   common.ENABLED,
	}
	if err := a.gormDB.Create(&admin).Error; err != nil {
		zap.S().Errorf("seed admin: %s", err)
		return
	}
	zap.S().Info("seeded default admin account")
}

// checkSettings inserts missing sys_config rows with their defaults.
func (a *Application) checkSettings() {
	defaults := []domain.SysConfig{
		{Sort: 1, Type: "system", Name: domain.ConfigStoreName, Value: "Craftline Wardrobe", Remark: "store display name"},
		{Sort: 2, Type: "system", Name: domain.ConfigFrontendURL, Value: "http://127.0.0.1:3000", Remark: "base url for links in mail"},
		{Sort: 3, Type: "order", Name: domain.ConfigExpressDeliveryFee, Value: "100", Remark: "express delivery surcharge"},
		{Sort: 4, Type: "notify", Name: domain.ConfigMailNotifyEnable, Value: common.ENABLED, Remark: "send order mails"},
		{Sort: 5, Type: "order", Name: domain.ConfigCheckoutExpireMin, Value: "30", Remark: "minutes before an unpaid checkout expires"},
	}
	for _, d := range defaults {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).Where("name = ?", d.Name).Count(&count)
		if count == 0 {
			d.ID = common.UUIDint64()
			a.gormDB.Create(&d)
		}
	}
}
