package pricing

import (
	"sort"
	"time"

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
)

// Market is a frozen price snapshot: exchange rates plus base item prices.
type Market struct {
	rates     Rates
	bases     map[string]Money
	updatedAt time.Time
}

func NewMarket(rates Rates, bases map[string]Money, updatedAt time.Time) *Market {
	m := &Market{rates: rates, bases: make(map[string]Money, len(bases)), updatedAt: updatedAt}
	for k, v := range bases {
		m.bases[k] = v
	}
	return m
}

func (m *Market) Rates() Rates { return m.rates }

func (m *Market) UpdatedAt() time.Time { return m.updatedAt }

// BaseNames lists priced bases in lexical order.
func (m *Market) BaseNames() []string {
	out := make([]string, 0, len(m.bases))
	for k := range m.bases {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Base returns the quoted price of a base item.
func (m *Market) Base(name string) (Money, bool) {
	p, ok := m.bases[name]
	return p, ok
}

// BasePrice returns the price of a base item in reference units.
func (m *Market) BasePrice(name string) (float64, error) {
	p, ok := m.bases[name]
	if !ok {
		return 0, crafterr.NotFoundf("no price for base %q", name).WithMeta("base", name)
	}
	return m.rates.Convert(p)
}

// Stale reports whether the snapshot is older than maxAge at now.
// maxAge <= 0 disables the check.
func (m *Market) Stale(now time.Time, maxAge time.Duration) bool {
	return Stale(m.updatedAt, now, maxAge)
}

// Stale reports whether a snapshot taken at ts is older than maxAge.
// A zero timestamp is treated as unknown and never stale.
func Stale(ts, now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 || ts.IsZero() {
		return false
	}
	return now.Sub(ts) > maxAge
}
