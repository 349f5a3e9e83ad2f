package types

// PaymentMode identifies how an order or transaction was paid.
type PaymentMode string

const (
	PaymentModeCOD      PaymentMode = "cod"
	PaymentModePrepaid  PaymentMode = "prepaid"
	PaymentModeUPI      PaymentMode = "upi"
	PaymentModeCard     PaymentMode = "card"
	PaymentModeTransfer PaymentMode = "bank_transfer"
)
