package request

type UpdateKnowledgeItemRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Status   string `json:"status" binding:"required"`
}
