package response

// JobAcceptedResponse 异步任务已登记，立即返回
type JobAcceptedResponse struct {
	JobID string `json:"job_id"`
	Kind  string `json:"kind"`
}

type ETLRunResponse struct {
	TargetDate         string `json:"target_date"`
	GroupsProcessed    int    `json:"groups_processed"`
	ConversationsTotal int    `json:"conversations_total"`
	Inserted           int    `json:"inserted"`
	SkippedExisting    int    `json:"skipped_existing"`
}

type ExtractionRunResponse struct {
	TargetDate         string `json:"target_date,omitempty"`
	ConversationsTotal int    `json:"conversations_total"`
	FAQsCreated        int    `json:"faqs_created"`
}

type SyncRunResponse struct {
	RunID      string `json:"run_id"`
	ScenarioID int64  `json:"scenario_id"`
	Items      int    `json:"items"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}
