package response

type UserAuthResponse struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	ScenarioID int64  `json:"scenario_id"`
	Role       string `json:"role"`
	Token      string `json:"token"`
}
