package model

// ApplicationStats are the application counters on the admin dashboard.
type ApplicationStats struct {
	Total    int `json:"total_applications"`
	Pending  int `json:"pending_review"`
	Accepted int `json:"accepted"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	TotalUsers    int `json:"total_users"`
	ActiveSprints int `json:"active_sprints"`
	ApplicationStats
	RecentApplications []ApplicationWithProfile `json:"recent_applications"`
}
