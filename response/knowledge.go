package response

import "dialog-faq-backend/model"

type ListKnowledgeItemsResponse struct {
	Total int64                 `json:"total"`
	Items []model.KnowledgeItem `json:"items"`
}
