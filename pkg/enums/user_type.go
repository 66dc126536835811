package enums

// UserType is the single role a user account carries.
type UserType string

const (
	UserTypeCustomer          UserType = "customer"
	UserTypeAdmin             UserType = "admin"
	UserTypeFinanceManager    UserType = "finance_manager"
	UserTypeInventoryManager  UserType = "inventory_manager"
	UserTypeDispatchManager   UserType = "dispatch_manager"
	UserTypeServiceManager    UserType = "service_manager"
	UserTypeSupplier          UserType = "supplier"
	UserTypeTechnicianManager UserType = "technician_manager"
	UserTypeDriver            UserType = "driver"
)

var validUserTypes = []UserType{
	UserTypeCustomer,
	UserTypeAdmin,
	UserTypeFinanceManager,
	UserTypeInventoryManager,
	UserTypeDispatchManager,
	UserTypeServiceManager,
	UserTypeSupplier,
	UserTypeTechnicianManager,
	UserTypeDriver,
}

func (u UserType) String() string { return string(u) }

func (u UserType) IsValid() bool { return contains(validUserTypes, u) }

// IsStaff reports whether the role belongs to back office staff.
func (u UserType) IsStaff() bool {
	return u != UserTypeCustomer && u.IsValid()
}

func ParseUserType(value string) (UserType, error) {
	return parse(validUserTypes, value, "user type")
}

func UserTypeValues() []string { return stringsOf(validUserTypes) }
