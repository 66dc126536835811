package enums

// PaymentStatus tracks an M-Pesa payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusCompleted,
	PaymentStatusFailed,
	PaymentStatusCancelled,
}

func (s PaymentStatus) String() string { return string(s) }

func (s PaymentStatus) IsValid() bool { return contains(validPaymentStatuses, s) }

func ParsePaymentStatus(value string) (PaymentStatus, error) {
	return parse(validPaymentStatuses, value, "payment status")
}

func PaymentStatusValues() []string { return stringsOf(validPaymentStatuses) }
