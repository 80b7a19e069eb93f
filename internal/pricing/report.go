package pricing

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/syndicate-prices/internal/pricecache"
)

// Line is one item of the price report.
type Line struct {
	Name   string
	Prices []int
}

// Cheapest returns the lowest price, or 0 when nothing is listed.
func (l Line) Cheapest() int {
	if len(l.Prices) == 0 {
		return 0
	}
	return l.Prices[0]
}

// String renders "<name>: p1, p2, ...".
func (l Line) String() string {
	parts := make([]string, len(l.Prices))
	for i, p := range l.Prices {
		parts[i] = strconv.Itoa(p)
	}
	return l.Name + ": " + strings.Join(parts, ", ")
}

// Report lists cached items from cheapest to most expensive.
type Report []Line

// BuildReport orders every cached record by its lowest price, breaking ties
// by name.
func BuildReport(c *pricecache.Cache) Report {
	r := make(Report, 0, c.Len())
	for name, rec := range c.Prices {
		r = append(r, Line{Name: name, Prices: rec.LowestPrices})
	}
	sort.Slice(r, func(i, j int) bool {
		if r[i].Cheapest() != r[j].Cheapest() {
			return r[i].Cheapest() < r[j].Cheapest()
		}
		return r[i].Name < r[j].Name
	})
	return r
}

// Write prints one line per item.
func (r Report) Write(w io.Writer) error {
	for _, l := range r {
		if _, err := fmt.Fprintln(w, l.String()); err != nil {
			return eris.Wrap(err, "pricing: write report")
		}
	}
	return nil
}
