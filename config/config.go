package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Cfg 全局配置实例
var Cfg *Config

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Aico      AicoConfig      `yaml:"aico"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	// 原始对话记录所在的源库（只读）
	SourceDSN string `yaml:"source_dsn"`

	// 业务库：整理后的对话、待审核FAQ、知识条目、场景等
	TargetDSN string `yaml:"target_dsn"`
}

type JWTConfig struct {
	SecretKey     string `yaml:"secret_key"`
	ExpireMinutes int    `yaml:"expire_minutes"`
}

type SchedulerConfig struct {
	// 每日任务触发时间，格式 "HH:MM"
	ETLRunAt string `yaml:"etl_run_at"`
	FAQRunAt string `yaml:"faq_run_at"`

	Timezone      string `yaml:"timezone"`
	ETLMaxWorkers int    `yaml:"etl_max_workers"`
	FAQMaxWorkers int    `yaml:"faq_max_workers"`
}

type AicoConfig struct {
	Host        string `yaml:"host"`
	UserPort    int    `yaml:"user_port"`
	ProjectPort int    `yaml:"project_port"`
	KBPort      int    `yaml:"kb_port"`

	TimeoutSeconds int `yaml:"timeout_seconds"`

	// FAQ提取所调用的chatbot网关
	ChatbotURL    string `yaml:"chatbot_url"`
	ChatbotAPIKey string `yaml:"chatbot_api_key"`

	// 自动审核与对比审核端点，缺省时逐级回退到ChatbotURL
	AutoReviewURL    string `yaml:"auto_review_url"`
	CompareReviewURL string `yaml:"compare_review_url"`

	// 测试/生产环境的AICO主机，用于场景身份选择
	HostTest string `yaml:"host_test"`
	HostProd string `yaml:"host_prod"`

	// 测试场景编码后缀，默认 "_test"
	TestScenarioSuffix string `yaml:"test_scenario_suffix"`

	// 文件删除端点，默认 /aicoapi/knowledge_manage/file/del
	FileDeleteEndpoint string `yaml:"file_delete_endpoint"`
}

const (
	defaultETLMaxWorkers = 4
	defaultFAQMaxWorkers = 5

	// 工作协程数量上限
	maxETLWorkers = 64
	maxFAQWorkers = 32
)

func Init(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}

	cfg.applyDefaults()

	// 敏感配置允许环境变量覆盖
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.JWT.SecretKey = v
	}
	if v := os.Getenv("AICO_CHATBOT_API_KEY"); v != "" {
		cfg.Aico.ChatbotAPIKey = v
	}

	Cfg = cfg
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.JWT.ExpireMinutes <= 0 {
		c.JWT.ExpireMinutes = 24 * 60
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = "Asia/Shanghai"
	}
	if c.Scheduler.ETLRunAt == "" {
		c.Scheduler.ETLRunAt = "01:00"
	}
	if c.Scheduler.FAQRunAt == "" {
		c.Scheduler.FAQRunAt = "03:00"
	}
	if c.Scheduler.ETLMaxWorkers <= 0 {
		c.Scheduler.ETLMaxWorkers = defaultETLMaxWorkers
	}
	if c.Scheduler.ETLMaxWorkers > maxETLWorkers {
		c.Scheduler.ETLMaxWorkers = maxETLWorkers
	}
	if c.Scheduler.FAQMaxWorkers <= 0 {
		c.Scheduler.FAQMaxWorkers = defaultFAQMaxWorkers
	}
	if c.Scheduler.FAQMaxWorkers > maxFAQWorkers {
		c.Scheduler.FAQMaxWorkers = maxFAQWorkers
	}
	if c.Aico.TimeoutSeconds <= 0 {
		c.Aico.TimeoutSeconds = 10
	}
	if c.Aico.TestScenarioSuffix == "" {
		c.Aico.TestScenarioSuffix = "_test"
	}
	if c.Aico.FileDeleteEndpoint == "" {
		c.Aico.FileDeleteEndpoint = "/aicoapi/knowledge_manage/file/del"
	}
}

// Timeout AICO接口统一超时时间
func (a AicoConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Location 解析调度时区，解析失败时退回UTC
func (s SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
