package model

import "time"

// Scenario 业务场景配置：域身份与AICO侧身份的绑定
//
// aico_cached_* 字段是同步编排器的运行时缓存，仅当场景绑定的aico_host
// 与当前配置的AICO主机一致时才可信。
type Scenario struct {
	ID           int64  `gorm:"primarykey" json:"id"`
	ScenarioCode string `gorm:"size:50;not null;uniqueIndex" json:"scenario_code"`
	ScenarioName string `gorm:"size:100;not null" json:"scenario_name"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	// 对应上游原始对话的group_code，如 "SW"、"GJ"
	SourceGroupCode string `gorm:"size:2" json:"source_group_code"`

	AicoUsername    string `gorm:"size:100;not null" json:"aico_username"`
	AicoUserID      int    `gorm:"not null" json:"aico_user_id"`
	AicoProjectName string `gorm:"size:100;not null" json:"aico_project_name"`
	AicoKBName      string `gorm:"size:100;not null" json:"aico_kb_name"`
	AicoHost        string `gorm:"size:100" json:"aico_host"`

	// 同步编排器独立维护的运行时缓存，与上面的身份配置分开演进
	AicoCache AicoCache `gorm:"embedded" json:"aico_cache"`

	SyncSchedule string `gorm:"size:50;not null;default:0 2 * * *" json:"sync_schedule"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Scenario) TableName() string {
	return "scenarios"
}

// AicoCache AICO侧身份的运行时缓存，仅由同步编排器写入
type AicoCache struct {
	PID            int        `gorm:"column:aico_cached_pid" json:"pid"`
	KBID           int        `gorm:"column:aico_cached_kb_id" json:"kb_id"`
	Token          string     `gorm:"column:aico_cached_token;type:text" json:"-"`
	TokenExpiresAt *time.Time `gorm:"column:aico_token_expires_at" json:"token_expires_at"`
}
