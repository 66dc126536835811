package enums

// OrderStatus tracks fulfilment of an order. Values are capitalised to match
// rows written by the previous admin dashboard.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsValid() bool { return contains(validOrderStatuses, s) }

func ParseOrderStatus(value string) (OrderStatus, error) {
	return parse(validOrderStatuses, value, "order status")
}

func OrderStatusValues() []string { return stringsOf(validOrderStatuses) }

// OrderPaymentStatus is the payment state recorded on the order itself.
type OrderPaymentStatus string

const (
	OrderPaymentPending   OrderPaymentStatus = "Pending"
	OrderPaymentPaid      OrderPaymentStatus = "Paid"
	OrderPaymentCancelled OrderPaymentStatus = "Cancelled"
)

var validOrderPaymentStatuses = []OrderPaymentStatus{
	OrderPaymentPending,
	OrderPaymentPaid,
	OrderPaymentCancelled,
}

func (s OrderPaymentStatus) String() string { return string(s) }

func (s OrderPaymentStatus) IsValid() bool { return contains(validOrderPaymentStatuses, s) }

func ParseOrderPaymentStatus(value string) (OrderPaymentStatus, error) {
	return parse(validOrderPaymentStatuses, value, "order payment status")
}

func OrderPaymentStatusValues() []string { return stringsOf(validOrderPaymentStatuses) }
