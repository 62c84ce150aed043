package entities

type BookingEmailData struct {
	Name          string
	BookingID     string
	DateFormatted string
	Time          string
	Timezone      string
	CurrentYear   int
}
