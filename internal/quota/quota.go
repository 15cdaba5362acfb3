// Package quota gates outbound provider calls behind daily and monthly
// request budgets so a burst of traffic cannot burn through a paid API
// tier. Budgets are tracked in-process; a restart forgets usage, which is
// acceptable because every limit resets at least daily anyway.
package quota

import (
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"
)

// ErrExhausted is returned by provider clients when a call is refused
// because the provider's budget is spent.
var ErrExhausted = errors.New("api quota exhausted")

// Limit is one provider's request budget.
type Limit struct {
	Daily   int
	Monthly int
}

// DefaultLimits mirror the free/low tiers of each upstream provider.
var DefaultLimits = map[string]Limit{
	"openweather": {Daily: 1000, Monthly: 60000},
	"stormglass":  {Daily: 50, Monthly: 1000},
	"noaa":        {Daily: 1000, Monthly: 30000},
}

// Usage is a point-in-time snapshot of one provider's consumption.
type Usage struct {
	Provider     string  `json:"provider"`
	DailyUsed    int     `json:"dailyUsed"`
	DailyLimit   int     `json:"dailyLimit"`
	MonthlyUsed  int     `json:"monthlyUsed"`
	MonthlyLimit int     `json:"monthlyLimit"`
	DailyPct     float64 `json:"dailyPct"`
	MonthlyPct   float64 `json:"monthlyPct"`
	Approaching  bool    `json:"approachingLimit"`
}

type counters struct {
	day         string
	month       string
	dailyUsed   int
	monthlyUsed int
}

// Tracker enforces per-provider budgets. Callers must Record only after a
// successful upstream call; refused or failed calls never consume budget.
type Tracker struct {
	clock  clockwork.Clock
	limits map[string]Limit

	mu    sync.Mutex
	usage map[string]*counters
}

// NewTracker creates a tracker for the given limits. Providers absent from
// the map are unlimited.
func NewTracker(clock clockwork.Clock, limits map[string]Limit) *Tracker {
	return &Tracker{
		clock:  clock,
		limits: limits,
		usage:  make(map[string]*counters),
	}
}

// roll resets counters whose day or month boundary has passed.
func (t *Tracker) roll(c *counters) {
	now := t.clock.Now()
	day := now.Format("2006-01-02")
	month := now.Format("2006-01")
	if c.day != day {
		c.day = day
		c.dailyUsed = 0
	}
	if c.month != month {
		c.month = month
		c.monthlyUsed = 0
	}
}

func (t *Tracker) counters(provider string) *counters {
	c, ok := t.usage[provider]
	if !ok {
		c = &counters{}
		t.usage[provider] = c
	}
	t.roll(c)
	return c
}

// Allow reports whether one more call to the provider fits its budget.
func (t *Tracker) Allow(provider string) bool {
	limit, limited := t.limits[provider]
	if !limited {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.counters(provider)
	if limit.Daily > 0 && c.dailyUsed >= limit.Daily {
		return false
	}
	if limit.Monthly > 0 && c.monthlyUsed >= limit.Monthly {
		return false
	}
	return true
}

// Record consumes one unit of the provider's budget.
func (t *Tracker) Record(provider string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.counters(provider)
	c.dailyUsed++
	c.monthlyUsed++
}

// approachingPct flags a provider once it has burned most of a budget.
const approachingPct = 80

// Usage snapshots one provider's consumption.
func (t *Tracker) Usage(provider string) Usage {
	limit := t.limits[provider]

	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.counters(provider)

	u := Usage{
		Provider:     provider,
		DailyUsed:    c.dailyUsed,
		DailyLimit:   limit.Daily,
		MonthlyUsed:  c.monthlyUsed,
		MonthlyLimit: limit.Monthly,
	}
	if limit.Daily > 0 {
		u.DailyPct = 100 * float64(c.dailyUsed) / float64(limit.Daily)
	}
	if limit.Monthly > 0 {
		u.MonthlyPct = 100 * float64(c.monthlyUsed) / float64(limit.Monthly)
	}
	u.Approaching = u.DailyPct >= approachingPct || u.MonthlyPct >= approachingPct
	return u
}

// AllUsage snapshots every limited provider, in no particular order.
func (t *Tracker) AllUsage() []Usage {
	out := make([]Usage, 0, len(t.limits))
	for provider := range t.limits {
		out = append(out, t.Usage(provider))
	}
	return out
}
