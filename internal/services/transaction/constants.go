package transaction

// Shipping is charged per kilometre of straight-line distance between the
// listing and the delivery point, with a floor.
const (
	ShippingRatePerKm = 5000
	MinimumShipping   = 10000
	earthRadiusKm     = 6371.0
	amountTolerance   = 0.5
)

// Verify-payment actions
const (
	VerifyApprove = "approve"
	VerifyReject  = "reject"
)
