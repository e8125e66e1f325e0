package feed

// Provider vocabulary. Values are compared verbatim against decoded records.
const (
	TaskTypeDelivery = "Delivery"
	TaskTypeAssembly = "Assembly"

	SituationCancelled         = "Cancelled"
	SituationReturnedFromField = "Returned From Field"

	ActivityDelivery             = "Delivery"
	ActivityDeliveryNotPerformed = "Delivery not performed"
	ActivityAssembly             = "Assembly"
	ActivityAssemblyNotPerformed = "Assembly not performed"
	ActivityStartOfTravel        = "Start of travel"
)
