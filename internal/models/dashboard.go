package models

// DashboardPointer remembers which message currently holds the dashboard
type DashboardPointer struct {
	MessageID string `json:"messageId,omitempty"`
}
