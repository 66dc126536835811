package enums

// InventoryChangeType classifies an entry in the stock movement log.
type InventoryChangeType string

const (
	InventoryChangeAdd    InventoryChangeType = "add"
	InventoryChangeRemove InventoryChangeType = "remove"
	InventoryChangeAdjust InventoryChangeType = "adjust"
)

var validInventoryChangeTypes = []InventoryChangeType{
	InventoryChangeAdd,
	InventoryChangeRemove,
	InventoryChangeAdjust,
}

func (c InventoryChangeType) String() string { return string(c) }

func (c InventoryChangeType) IsValid() bool { return contains(validInventoryChangeTypes, c) }

func ParseInventoryChangeType(value string) (InventoryChangeType, error) {
	return parse(validInventoryChangeTypes, value, "inventory change type")
}

func InventoryChangeTypeValues() []string { return stringsOf(validInventoryChangeTypes) }
