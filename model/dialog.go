package model

import "time"

type ConversationStatus string

const (
	// 等待FAQ提取
	StatusUnprocessed ConversationStatus = "unprocessed"

	// 已被工作协程认领
	StatusProcessing ConversationStatus = "processing"

	// 已生成待审核FAQ
	StatusCompleted ConversationStatus = "completed"

	// 提取调用失败
	StatusFailed ConversationStatus = "failed"

	// 无可提取内容
	StatusProcessedNoFAQ ConversationStatus = "processed_no_faq"
)

// 对话角色，source字段取值
const (
	SourceCitizen = 1
	SourceAgent   = 2
)

// DialogRecord 上游系统的原始对话记录，对本服务只读
type DialogRecord struct {
	ID         int64     `gorm:"primarykey" json:"id"`
	GroupCode  string    `gorm:"size:4;not null" json:"group_code"`
	CallID     string    `gorm:"size:64;not null" json:"call_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Source     int       `gorm:"not null" json:"source"`
	Seq        int       `json:"seq"`
	CreateTime time.Time `gorm:"not null" json:"create_time"`
}

func (DialogRecord) TableName() string {
	return "people_customer_dialog"
}

// PreparedConversation 按call_id聚合后的完整对话，每个call_id至多一行
type PreparedConversation struct {
	ID               int64              `gorm:"primarykey" json:"id"`
	GroupCode        string             `gorm:"size:4;not null" json:"group_code"`
	CallID           string             `gorm:"size:64;not null;uniqueIndex:uk_call_id" json:"call_id"`
	FullText         string             `gorm:"type:text;not null" json:"full_text"`
	Status           ConversationStatus `gorm:"size:20;not null;default:unprocessed" json:"status"`
	ConversationTime time.Time          `json:"conversation_time"`
	CreatedAt        time.Time          `gorm:"not null" json:"created_at"`
}

func (PreparedConversation) TableName() string {
	return "prepared_conversations"
}
