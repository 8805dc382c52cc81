package model

import "time"

type FAQStatus string

const (
	// 等待人工审核
	FAQStatusPending FAQStatus = "pending"

	// 自动审核拒绝
	FAQStatusAutoRejected FAQStatus = "auto_rejected"

	// 人工审核通过并已生成知识条目
	FAQStatusProcessed FAQStatus = "processed"

	// 人工审核丢弃
	FAQStatusDiscarded FAQStatus = "discarded"
)

type KnowledgeStatus string

const (
	KnowledgeStatusActive   KnowledgeStatus = "active"
	KnowledgeStatusDisabled KnowledgeStatus = "disabled"
)

// PendingFAQ 从对话中提取出的候选问答对
type PendingFAQ struct {
	ID       int64     `gorm:"primarykey" json:"id"`
	Question string    `gorm:"type:text;not null" json:"question"`
	Answer   string    `gorm:"type:text;not null" json:"answer"`
	Status   FAQStatus `gorm:"size:20;not null;default:pending" json:"status"`

	// 来源信息：场景分组编码、对话call_id与聚合全文
	SourceGroupCode        string `gorm:"size:2" json:"source_group_code"`
	SourceCallID           string `gorm:"size:64" json:"source_call_id"`
	SourceConversationText string `gorm:"type:text" json:"source_conversation_text"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PendingFAQ) TableName() string {
	return "pending_faqs"
}

// KnowledgeItem 审核通过后的标准问答对，绑定到场景
type KnowledgeItem struct {
	ID         int64           `gorm:"primarykey" json:"id"`
	ScenarioID int64           `gorm:"not null;index" json:"scenario_id"`
	Question   string          `gorm:"type:text;not null" json:"question"`
	Answer     string          `gorm:"type:text;not null" json:"answer"`
	Status     KnowledgeStatus `gorm:"size:20;not null;default:active" json:"status"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

func (KnowledgeItem) TableName() string {
	return "knowledge_items"
}
