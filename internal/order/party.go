package order

// Wire types shared by purchase units and the order envelope. Field names
// follow the PayPal Orders v2 resource.

type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	AdminArea2   string `json:"admin_area_2,omitempty"`
	AdminArea1   string `json:"admin_area_1,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	CountryCode  string `json:"country_code"`
}

type ShippingName struct {
	FullName string `json:"full_name,omitempty"`
}

type Shipping struct {
	Name    *ShippingName `json:"name,omitempty"`
	Address *Address      `json:"address,omitempty"`
}

type Payee struct {
	Email      string `json:"email_address,omitempty"`
	MerchantID string `json:"merchant_id,omitempty"`
}

type PayerName struct {
	GivenName string `json:"given_name,omitempty"`
	Surname   string `json:"surname,omitempty"`
}

type Payer struct {
	PayerID string     `json:"payer_id,omitempty"`
	Email   string     `json:"email_address,omitempty"`
	Name    *PayerName `json:"name,omitempty"`
	Address *Address   `json:"address,omitempty"`
}

type PaymentSource struct {
	PayPal *Payer `json:"paypal,omitempty"`
}

// Capture records one completed capture on a purchase unit.
type Capture struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CreateTime string `json:"create_time,omitempty"`
	Final      bool   `json:"final_capture,omitempty"`
	Amount     Amount `json:"amount"`
}

type Authorization struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount Amount `json:"amount"`
}

// Payments is the payment activity attached to a purchase unit by the
// remote side; it is never built locally.
type Payments struct {
	Captures       []Capture       `json:"captures,omitempty"`
	Authorizations []Authorization `json:"authorizations,omitempty"`
}
