package request

type AcceptFAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

type BulkAcceptFAQItem struct {
	PendingFAQID int64  `json:"pending_faq_id" binding:"required"`
	Question     string `json:"question" binding:"required"`
	Answer       string `json:"answer" binding:"required"`
}

type BulkAcceptFAQRequest struct {
	Items []BulkAcceptFAQItem `json:"items" binding:"required"`
}

type BulkDiscardFAQRequest struct {
	PendingFAQIDs []int64 `json:"pending_faq_ids" binding:"required"`
}
