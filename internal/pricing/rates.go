package pricing

import (
	"math"
	"sort"
	"strings"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// MinDenominations is the smallest exchange table the engine accepts.
const MinDenominations = 3

// Money is an amount in one currency, e.g. {12, "exalted"}.
type Money struct {
	Amount   float64 `yaml:"amount" json:"amount"`
	Currency string  `yaml:"currency" json:"currency"`
}

// Rates converts currencies into one reference unit.
// values[c] is the worth of one c in reference units.
type Rates struct {
	reference string
	values    map[string]float64
}

// NewRates validates an exchange table. The reference currency is added
// with value 1 if absent.
func NewRates(reference string, values map[string]float64) (Rates, error) {
	ref := normCurrency(reference)
	if ref == "" {
		return Rates{}, crafterr.InvalidArgument("reference currency is required")
	}
	out := Rates{reference: ref, values: make(map[string]float64, len(values)+1)}
	var errs []string
	for c, v := range values {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, "rates."+c+" must be > 0")
			continue
		}
		out.values[normCurrency(c)] = v
	}
	if v, ok := out.values[ref]; ok && v != 1 {
		errs = append(errs, "rates."+ref+" is the reference and must be 1")
	}
	out.values[ref] = 1
	if len(out.values) < MinDenominations {
		errs = append(errs, "rates must cover at least 3 denominations")
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return Rates{}, crafterr.Validation("rates validation failed: " + strings.Join(errs, "; "))
	}
	return out, nil
}

func (r Rates) Reference() string { return r.reference }

// Currencies lists the known currencies in lexical order.
func (r Rates) Currencies() []string {
	out := make([]string, 0, len(r.values))
	for c := range r.values {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Value returns the worth of one unit of currency in reference units.
func (r Rates) Value(currency string) (float64, bool) {
	v, ok := r.values[normCurrency(currency)]
	return v, ok
}

// Convert returns m in reference units. An empty currency means reference.
func (r Rates) Convert(m Money) (float64, error) {
	c := normCurrency(m.Currency)
	if c == "" {
		c = r.reference
	}
	v, ok := r.values[c]
	if !ok {
		return 0, crafterr.InvalidArgumentf("unknown currency %q", m.Currency).WithMeta("currency", m.Currency)
	}
	return m.Amount * v, nil
}

// ConvertTo expresses m in currency.
func (r Rates) ConvertTo(m Money, currency string) (Money, error) {
	ref, err := r.Convert(m)
	if err != nil {
		return Money{}, err
	}
	v, ok := r.values[normCurrency(currency)]
	if !ok {
		return Money{}, crafterr.InvalidArgumentf("unknown currency %q", currency).WithMeta("currency", currency)
	}
	return Money{Amount: ref / v, Currency: normCurrency(currency)}, nil
}

func normCurrency(c string) string { return strings.ToLower(strings.TrimSpace(c)) }
