package types

// PaymentPortal tags where a ledger entry came from.
type PaymentPortal string

const (
	PaymentPortalPaypal  PaymentPortal = "paypal"
	PaymentPortalOffline PaymentPortal = "offline"
	PaymentPortalManual  PaymentPortal = "manual"
	PaymentPortalImport  PaymentPortal = "import"
)

// Online reports whether the portal is a hosted processor the member is
// redirected to before payment is confirmed.
func (p PaymentPortal) Online() bool {
	return p == PaymentPortalPaypal
}

// PaymentDueMode selects how due dates are projected.
type PaymentDueMode string

const (
	PaymentDueModePeriod PaymentDueMode = "period"
	PaymentDueModeFixed  PaymentDueMode = "fixed"
)

// LatePaymentPolicy decides which date anchors the next period when a payment
// arrives after the due date.
type LatePaymentPolicy string

const (
	LatePaymentPolicyLastDue     LatePaymentPolicy = "last_due"
	LatePaymentPolicyLastPayment LatePaymentPolicy = "last_payment"
)
