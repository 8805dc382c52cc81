package request

type CreateScenarioRequest struct {
	ScenarioCode    string `json:"scenario_code" binding:"required"`
	ScenarioName    string `json:"scenario_name" binding:"required"`
	IsActive        *bool  `json:"is_active"`
	SourceGroupCode string `json:"source_group_code"`
	AicoUsername    string `json:"aico_username" binding:"required"`
	AicoUserID      int    `json:"aico_user_id" binding:"required"`
	AicoProjectName string `json:"aico_project_name" binding:"required"`
	AicoKBName      string `json:"aico_kb_name" binding:"required"`
	AicoHost        string `json:"aico_host"`
	SyncSchedule    string `json:"sync_schedule"`
}

type UpdateScenarioRequest struct {
	ScenarioCode    string `json:"scenario_code" binding:"required"`
	ScenarioName    string `json:"scenario_name" binding:"required"`
	IsActive        *bool  `json:"is_active"`
	SourceGroupCode string `json:"source_group_code"`
	AicoUsername    string `json:"aico_username" binding:"required"`
	AicoUserID      int    `json:"aico_user_id" binding:"required"`
	AicoProjectName string `json:"aico_project_name" binding:"required"`
	AicoKBName      string `json:"aico_kb_name" binding:"required"`
	AicoHost        string `json:"aico_host"`
	SyncSchedule    string `json:"sync_schedule"`
}
