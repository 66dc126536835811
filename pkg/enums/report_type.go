package enums

type ReportType string

const (
	ReportTypeSales     ReportType = "sales"
	ReportTypeInventory ReportType = "inventory"
	ReportTypeFinancial ReportType = "financial"
	ReportTypeRentals   ReportType = "rentals"
	ReportTypeServices  ReportType = "services"
	ReportTypeDispatch  ReportType = "dispatch"
	ReportTypeCustom    ReportType = "custom"
)

var validReportTypes = []ReportType{
	ReportTypeSales,
	ReportTypeInventory,
	ReportTypeFinancial,
	ReportTypeRentals,
	ReportTypeServices,
	ReportTypeDispatch,
	ReportTypeCustom,
}

func (r ReportType) String() string { return string(r) }

func (r ReportType) IsValid() bool { return contains(validReportTypes, r) }

func ParseReportType(value string) (ReportType, error) {
	return parse(validReportTypes, value, "report type")
}

func ReportTypeValues() []string { return stringsOf(validReportTypes) }
