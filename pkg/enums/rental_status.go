package enums

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusPaid      RentalStatus = "paid"
	RentalStatusCancelled RentalStatus = "cancelled"
)

var validRentalStatuses = []RentalStatus{
	RentalStatusPending,
	RentalStatusPaid,
	RentalStatusCancelled,
}

func (s RentalStatus) String() string { return string(s) }

func (s RentalStatus) IsValid() bool { return contains(validRentalStatuses, s) }

func ParseRentalStatus(value string) (RentalStatus, error) {
	return parse(validRentalStatuses, value, "rental status")
}

func RentalStatusValues() []string { return stringsOf(validRentalStatuses) }
