package app

import (
	"sync"

	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/pkg/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// ConfigManager caches sys_config rows and hands out typed values.
type ConfigManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]string
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{db: db, cache: make(map[string]string)}
}

func (m *ConfigManager) GetString(name string) string {
	m.mu.RLock()
	if v, ok := m.cache[name]; ok {
		m.mu.RUnlock()
		return v
	}
	m.mu.RUnlock()

	var cfg domain.SysConfig
	if err := m.db.Where("name = ?", name).First(&cfg).Error; err != nil {
		return ""
	}
	m.mu.Lock()
	m.cache[name] = cfg.Value
	m.mu.Unlock()
	return cfg.Value
}

func (m *ConfigManager) GetInt(name string) int {
	return cast.ToInt(m.GetString(name))
}

func (m *ConfigManager) GetBool(name string) bool {
	return m.GetString(name) == common.ENABLED
}

func (m *ConfigManager) GetDecimal(name string) decimal.Decimal {
	d, err := decimal.NewFromString(m.GetString(name))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Set writes through to the database and refreshes the cache entry.
func (m *ConfigManager) Set(name, value string) error {
	var cfg domain.SysConfig
	err := m.db.Where("name = ?", name).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		cfg = domain.SysConfig{ID: common.UUIDint64(), Name: name, Value: value}
		err = m.db.Create(&cfg).Error
	} else if err == nil {
		err = m.db.Model(&cfg).Update("value", value).Error
	}
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cache[name] = value
	m.mu.Unlock()
	return nil
}

// Invalidate drops the in-memory cache so the next read hits the database.
func (m *ConfigManager) Invalidate() {
	m.mu.Lock()
	m.cache = make(map[string]string)
	m.mu.Unlock()
}
