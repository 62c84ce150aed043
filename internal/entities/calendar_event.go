package entities

type CalendarInviteRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	DateTime string `json:"dateTime"` // RFC3339
	Timezone string `json:"timezone"`
}

type CalendarInvite struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	DateTime   string `json:"dateTime"`
	Duration   int    `json:"duration"`
	ICSContent string `json:"icsContent"`
}

type CalendarInviteResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Event   CalendarInvite `json:"event"`
}

type CalendarResult struct {
	Success bool   `json:"success"`
	Retry   bool   `json:"retry,omitempty"`
	Message string `json:"message"`
}
