package enums

type DispatchStatus string

const (
	DispatchStatusAssigned  DispatchStatus = "assigned"
	DispatchStatusInTransit DispatchStatus = "in_transit"
	DispatchStatusDelivered DispatchStatus = "delivered"
)

var validDispatchStatuses = []DispatchStatus{
	DispatchStatusAssigned,
	DispatchStatusInTransit,
	DispatchStatusDelivered,
}

func (s DispatchStatus) String() string { return string(s) }

func (s DispatchStatus) IsValid() bool { return contains(validDispatchStatuses, s) }

func ParseDispatchStatus(value string) (DispatchStatus, error) {
	return parse(validDispatchStatuses, value, "dispatch status")
}

func DispatchStatusValues() []string { return stringsOf(validDispatchStatuses) }
