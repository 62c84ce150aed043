package entities

import "time"

// SheetRow is the payload posted to the spreadsheet webhook.
type SheetRow struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}
