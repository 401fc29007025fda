package app

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/craftline/wardrobe/config"
	"gorm.io/gorm"
)

// Narrow views over the Application for components that only need one
// capability.

type DBProvider interface {
	DB() *gorm.DB
}

type ConfigProvider interface {
	Config() *config.AppConfig
}

type SettingsProvider interface {
	Settings() *ConfigManager
}

type BusProvider interface {
	Bus() evbus.Bus
}

var (
	_ DBProvider       = (*Application)(nil)
	_ ConfigProvider   = (*Application)(nil)
	_ SettingsProvider = (*Application)(nil)
	_ BusProvider      = (*Application)(nil)
)
