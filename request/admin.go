package request

type TriggerAggregationRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type TriggerExtractionRequest struct {
	TargetDate string `json:"target_date"`
	Limit      int    `json:"limit"`
}
