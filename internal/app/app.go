package app

import (
	"os"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/craftline/wardrobe/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

var app *Application

// GApp returns the process-wide application instance.
func GApp() *Application {
	return app
}

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	settings  *ConfigManager
	bus       evbus.Bus
	sched     *cron.Cron
	location  *time.Location
}

func (a *Application) Config() *config.AppConfig { return a.appConfig }
func (a *Application) DB() *gorm.DB              { return a.gormDB }
func (a *Application) Settings() *ConfigManager  { return a.settings }
func (a *Application) Bus() evbus.Bus            { return a.bus }
func (a *Application) Location() *time.Location  { return a.location }

// Init builds the application: logger, database, settings cache, event bus
// and scheduler. It must run before any other package touches GApp().
func Init(cfg *config.AppConfig) *Application {
	cfg.InitDirs()
	setupLogger(cfg)

	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Warnf("invalid location %s, falling back to Local", cfg.System.Location)
		loc = time.Local
	}

	app = &Application{
		appConfig: cfg,
		bus:       evbus.New(),
		location:  loc,
	}
	app.gormDB = getDatabase(cfg)
	app.settings = NewConfigManager(app.gormDB)
	app.sched = cron.New(cron.WithLocation(loc))
	return app
}

// InitDB migrates the schema and seeds the admin account and default
// settings. Safe to run repeatedly.
func (a *Application) InitDB() {
	a.MigrateDB()
	a.checkSuper()
	a.checkSettings()
}

func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.gormDB != nil {
		if sqldb, err := a.gormDB.DB(); err == nil {
			_ = sqldb.Close()
		}
	}
	_ = zap.L().Sync()
}

func setupLogger(cfg *config.AppConfig) {
	var zcfg zap.Config
	if cfg.Logger.Mode == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zcfg.EncoderConfig),
			zapcore.AddSync(os.Stdout),
			zcfg.Level,
		),
	}
	if cfg.Logger.FileEnable {
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		writer := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(writer), zcfg.Level))
	}
	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(logger)
}
