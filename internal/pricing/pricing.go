/*
Package pricing picks the single display price of a battery and lists the
markets it is sold in.
*/
package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/shanehull/batterydb/internal/types"
)

const (
	CurrencyUSD = "$"
	CurrencyEUR = "€"

	// Placeholder shows a missing price. A missing price is never rendered as zero.
	Placeholder = "—"
)

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Resolve prefers the US price over the NL price. The two are alternative
// display choices and are never converted into each other. The FR price is
// informational only.
func Resolve(b types.Battery) (Price, bool) {
	if b.PriceUS != nil {
		return Price{Amount: *b.PriceUS, Currency: CurrencyUSD}, true
	}
	if b.PriceNL != nil {
		return Price{Amount: *b.PriceNL, Currency: CurrencyEUR}, true
	}
	return Price{}, false
}

// Display renders the resolved price with thousands separators, or the
// placeholder when no price is known.
func Display(b types.Battery) string {
	p, ok := Resolve(b)
	if !ok {
		return Placeholder
	}
	printer := message.NewPrinter(language.English)
	return p.Currency + printer.Sprint(number.Decimal(p.Amount))
}

// Markets returns availability tags in fixed NL, FR, US order.
func Markets(b types.Battery) []string {
	markets := make([]string, 0, 3)
	if b.AvailableNL {
		markets = append(markets, "NL")
	}
	if b.AvailableFR {
		markets = append(markets, "FR")
	}
	if b.AvailableUS {
		markets = append(markets, "US")
	}
	return markets
}
