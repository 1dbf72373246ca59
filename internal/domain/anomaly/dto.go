package anomaly

// ========================================
// ANOMALY DTOs
// ========================================

type EventResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	RuleID      string   `json:"rule_id"`
	Type        Type     `json:"type"`
	Severity    Severity `json:"severity"`
	Status      Status   `json:"status"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Data        Payload  `json:"data,omitempty"`
	DetectedAt  string   `json:"detected_at"`
	ResolvedAt  *string  `json:"resolved_at,omitempty"`
	ResolvedBy  *string  `json:"resolved_by,omitempty"`
}

type ListEventsResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Events     []EventResponse `json:"events"`
}
