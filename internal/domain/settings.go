package domain

import "github.com/shopspring/decimal"

// Settings is read-only storefront data served by the settings store. The
// order core never mutates it.
type Settings struct {
	AdminCode   string              `json:"adminCode"`
	PaymentCard CardDetails         `json:"paymentCard"`
	Currencies  map[string]Currency `json:"currencies"`
}

// CardDetails is the card customers transfer to when paying by card.
type CardDetails struct {
	Number      string `json:"number"`
	Holder      string `json:"holder"`
	Instruction string `json:"instruction"`
}

// Currency carries the display symbol and the conversion rate from the
// reference currency. Rates are fractional (0.23, 0.0026), hence decimal.
type Currency struct {
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}
