package catalog

import "sort"

// Retailer identifies one of the tracked retailers.
type Retailer string

const (
	Amazon    Retailer = "amazon"
	CVS       Retailer = "cvs"
	Target    Retailer = "target"
	Walgreens Retailer = "walgreens"
	Walmart   Retailer = "walmart"
)

// roster is the closed set of supported retailers. The order is the legend
// order and the deterministic tie-break order used everywhere downstream.
var roster = []Retailer{Amazon, CVS, Target, Walgreens, Walmart}

// Roster returns the canonical retailer roster in legend order.
// Callers must not mutate the returned slice.
func Roster() []Retailer {
	return roster
}

// RosterIndex returns the position of r in the roster, or len(roster) for
// retailers outside the closed set so they sort after all known ones.
func RosterIndex(r Retailer) int {
	for i, known := range roster {
		if known == r {
			return i
		}
	}
	return len(roster)
}

// IsKnown reports whether r is a member of the canonical roster.
func IsKnown(r Retailer) bool {
	return RosterIndex(r) < len(roster)
}

var displayNames = map[Retailer]string{
	Amazon:    "Amazon",
	CVS:       "CVS",
	Target:    "Target",
	Walgreens: "Walgreens",
	Walmart:   "Walmart",
}

// DisplayName returns the human-facing retailer name.
func DisplayName(r Retailer) string {
	if name, ok := displayNames[r]; ok {
		return name
	}
	if r == "" {
		return ""
	}
	b := []byte(r)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

var colors = map[Retailer]string{
	Amazon:    "#FF9900",
	CVS:       "#E91E63",
	Target:    "#CC0000",
	Walgreens: "#7B1FA2",
	Walmart:   "#0071CE",
}

// MutedColor is used for deactivated chart series.
const MutedColor = "#d0d0d0"

// Color returns the chart color for a retailer.
func Color(r Retailer) string {
	if c, ok := colors[r]; ok {
		return c
	}
	return "#666"
}

// Insight is a per-retailer pricing observation shown as a dashboard card.
type Insight struct {
	Retailer   Retailer `json:"retailer"`
	Text       string   `json:"text"`
	Confidence int      `json:"confidence"`
	Date       string   `json:"date"`
}

var insights = []Insight{
	{
		Retailer:   Amazon,
		Text:       "Amazon appears to adjust pricing on this category in early December, possibly tied to holiday fulfillment cost changes. Prices rose ~8% before stabilizing in January.",
		Confidence: 22,
		Date:       "Observed Dec 2025",
	},
	{
		Retailer:   Walgreens,
		Text:       "Walgreens shows a pattern of dropping prices during summer months (Jun-Aug), possibly due to seasonal promotions or inventory cycling.",
		Confidence: 18,
		Date:       "Observed Jul-Aug 2025",
	},
	{
		Retailer:   CVS,
		Text:       "CVS pricing spiked after an apparent stock shortage. When inventory was restored, prices settled ~3% above pre-shortage levels rather than returning to baseline.",
		Confidence: 30,
		Date:       "Observed Oct 2025",
	},
	{
		Retailer:   Walmart,
		Text:       "Walmart maintains the most stable pricing of all tracked retailers. Price variance is under 2% across the full tracking period, suggesting centralized price management.",
		Confidence: 55,
		Date:       "Ongoing observation",
	},
	{
		Retailer:   Target,
		Text:       "Target tends to match Amazon's price within 48-72 hours of a change, but rarely initiates price movements independently.",
		Confidence: 15,
		Date:       "Observed Nov-Dec 2025",
	},
}

// InsightsFor returns the insights relevant to the given retailers, sorted by
// confidence descending. The sort is stable so equal-confidence insights keep
// their roster order.
func InsightsFor(active map[Retailer]bool) []Insight {
	var out []Insight
	for _, in := range insights {
		if active[in.Retailer] {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}
