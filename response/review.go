package response

import (
	"dialog-faq-backend/model"
	"time"
)

type PendingFAQResponse struct {
	ID                     int64     `json:"id"`
	Question               string    `json:"question"`
	Answer                 string    `json:"answer"`
	Status                 string    `json:"status"`
	SourceGroupCode        string    `json:"source_group_code"`
	SourceCallID           string    `json:"source_call_id"`
	SourceConversationText string    `json:"source_conversation_text"`
	CreatedAt              time.Time `json:"created_at"`
}

type ListPendingFAQsResponse struct {
	Total int64                `json:"total"`
	Items []PendingFAQResponse `json:"items"`
}

type AcceptFAQResponse struct {
	KnowledgeItemID int64 `json:"knowledge_item_id"`
}

type BulkOperationResponse struct {
	Processed int `json:"processed"`
}

func NewPendingFAQResponse(faq *model.PendingFAQ) PendingFAQResponse {
	return PendingFAQResponse{
		ID:                     faq.ID,
		Question:               faq.Question,
		Answer:                 faq.Answer,
		Status:                 string(faq.Status),
		SourceGroupCode:        faq.SourceGroupCode,
		SourceCallID:           faq.SourceCallID,
		SourceConversationText: faq.SourceConversationText,
		CreatedAt:              faq.CreatedAt,
	}
}
