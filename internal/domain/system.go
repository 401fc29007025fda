package domain

import "time"

// SysConfig is a runtime-tunable setting stored in the database.
type SysConfig struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	Sort      int       `json:"sort"`
	Type      string    `json:"type" gorm:"size:32;index"`
	Name      string    `json:"name" gorm:"size:64;index"`
	Value     string    `json:"value" gorm:"size:255"`
	Remark    string    `json:"remark" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SysConfig) TableName() string { return "sys_config" }

// Setting names stored in sys_config.
const (
	ConfigStoreName          = "StoreName"
	ConfigFrontendURL        = "FrontendURL"
	ConfigExpressDeliveryFee = "ExpressDeliveryFee"
	ConfigMailNotifyEnable   = "MailNotifyEnable"
	ConfigCheckoutExpireMin  = "CheckoutExpireMinutes"
)

// SysOprLog records admin mutations; old rows are purged by a nightly job.
type SysOprLog struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	OprName   string    `json:"opr_name" gorm:"size:64"`
	OprIP     string    `json:"opr_ip" gorm:"size:64"`
	OptAction string    `json:"opt_action" gorm:"size:128"`
	OptDesc   string    `json:"opt_desc" gorm:"size:512"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (SysOprLog) TableName() string { return "sys_opr_log" }
