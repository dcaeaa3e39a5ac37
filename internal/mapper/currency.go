package mapper

import (
	"strconv"

	"github.com/dvloznov/mono-mirror/internal/domain"
)

// currencyTable covers the currencies the provider actually issues accounts
// in. Anything else falls back to a numeric placeholder rather than failing
// the sync.
var currencyTable = map[int]domain.Currency{
	980: {Code: 980, Name: "UAH", Symbol: "₴", Flag: "🇺🇦"},
	840: {Code: 840, Name: "USD", Symbol: "$", Flag: "🇺🇸"},
	978: {Code: 978, Name: "EUR", Symbol: "€", Flag: "🇪🇺"},
	985: {Code: 985, Name: "PLN", Symbol: "zł", Flag: "🇵🇱"},
	826: {Code: 826, Name: "GBP", Symbol: "£", Flag: "🇬🇧"},
}

// CurrencyFromCode resolves an ISO-4217 numeric code into the denormalized
// currency descriptor stored on documents.
func CurrencyFromCode(code int) domain.Currency {
	if cur, ok := currencyTable[code]; ok {
		return cur
	}
	return domain.Currency{Code: code, Name: strconv.Itoa(code)}
}
