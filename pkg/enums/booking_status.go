package enums

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

func (s BookingStatus) String() string { return string(s) }

func (s BookingStatus) IsValid() bool { return contains(validBookingStatuses, s) }

func ParseBookingStatus(value string) (BookingStatus, error) {
	return parse(validBookingStatuses, value, "booking status")
}

func BookingStatusValues() []string { return stringsOf(validBookingStatuses) }
