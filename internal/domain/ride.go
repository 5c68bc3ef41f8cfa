package domain

// PaymentMethod represents how a rider pays for a trip.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodWallet   PaymentMethod = "WALLET"
	PaymentMethodTelebirr PaymentMethod = "TELEBIRR"
)

// VehicleType represents the service class a rider selects.
type VehicleType string

const (
	VehicleTypeMini  VehicleType = "mini"
	VehicleTypeSedan VehicleType = "sedan"
	VehicleTypeVan   VehicleType = "van"
)

// ValidVehicleType reports whether the given identifier names a known
// service class.
func ValidVehicleType(v string) bool {
	switch VehicleType(v) {
	case VehicleTypeMini, VehicleTypeSedan, VehicleTypeVan:
		return true
	}
	return false
}
