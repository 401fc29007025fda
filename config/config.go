package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

// PaymentConfig carries the gateway credentials. Secret is the HMAC key
// used to verify payment callbacks.
type PaymentConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	KeyID   string `yaml:"key_id" json:"key_id"`
	Secret  string `yaml:"secret" json:"-"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`
	From     string `yaml:"from" json:"from"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Payment  PaymentConfig `yaml:"payment" json:"payment"`
	Smtp     SmtpConfig    `yaml:"smtp" json:"smtp"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(path.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "data"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "wardrobe",
		Location: "Asia/Kolkata",
		Workdir:  "/var/wardrobe",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		JwtSecret: "9b6de5cc-storefront-0cd43f00",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "wardrobe",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Payment: PaymentConfig{
		BaseURL: "https://api.razorpay.com/v1",
	},
	Smtp: SmtpConfig{
		Host: "smtp.gmail.com",
		Port: 587,
	},
	Logger: LogConfig{
		Mode:     "development",
		Filename: "/var/wardrobe/logs/wardrobe.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok {
		f(v)
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	if fileExists(cfile) {
		data, err := os.ReadFile(cfile)
		if err != nil {
			panic(err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(err)
		}
	} else {
		cfg = DefaultAppConfig
	}

	setEnvValue("WARDROBE_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("WARDROBE_WEB_JWT_SECRET", func(v string) { cfg.Web.JwtSecret = v })
	setEnvValue("WARDROBE_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("WARDROBE_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("WARDROBE_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("WARDROBE_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("WARDROBE_PAYMENT_KEY_ID", func(v string) { cfg.Payment.KeyID = v })
	setEnvValue("WARDROBE_PAYMENT_SECRET", func(v string) { cfg.Payment.Secret = v })
	setEnvValue("WARDROBE_SMTP_USERNAME", func(v string) { cfg.Smtp.Username = v })
	setEnvValue("WARDROBE_SMTP_PASSWORD", func(v string) { cfg.Smtp.Password = v })
	return cfg
}

func fileExists(file string) bool {
	info, err := os.Stat(file)
	if os.IsNotExist(err) {
		return false
	}
	return info != nil && !info.IsDir()
}
