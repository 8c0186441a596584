package shop

// PaymentMethod identifies how the customer intends to pay.
type PaymentMethod string

const (
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentEWallet        PaymentMethod = "e_wallet"
)

// PaymentMethods lists the accepted payment methods in display order.
var PaymentMethods = []PaymentMethod{PaymentBankTransfer, PaymentCashOnDelivery, PaymentEWallet}

// DeliveryMethod identifies how the order reaches the customer.
type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryInstant DeliveryMethod = "instant"
)

// DeliveryMethods lists the accepted delivery methods in display order.
var DeliveryMethods = []DeliveryMethod{DeliveryPickup, DeliveryCourier, DeliveryInstant}

// Customer holds the contact fields collected by the checkout form.
type Customer struct {
	Name     string         `json:"name" yaml:"name"`
	WhatsApp string         `json:"whatsapp" yaml:"whatsapp"`
	Address  string         `json:"address" yaml:"address"`
	Notes    string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	Payment  PaymentMethod  `json:"payment" yaml:"payment"`
	Delivery DeliveryMethod `json:"delivery" yaml:"delivery"`
}
