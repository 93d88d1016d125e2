package report

import (
	"fmt"
	"io"

	"price-intel/internal/catalog"
	"price-intel/internal/pricing"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Product is one product's reportable state: ranked retailer stats plus
// today's best price.
type Product struct {
	Brand string
	Name  string
	Size  string
	Stats []pricing.RetailerStat
	Best  pricing.TodaysBest
	Days  int
}

// Render prints a per-product stat table for every product. Stats arrive
// ranked by average ascending, so the first row is the consistent best value.
func Render(w io.Writer, source string, products []Product) error {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "Price report (%d products, source: %s)\n\n", len(products), source)

	for _, p := range products {
		title := fmt.Sprintf("%s %s", p.Brand, p.Name)
		if p.Size != "" {
			title += fmt.Sprintf(" (%s)", p.Size)
		}
		fmt.Fprintln(w, bold(title))
		if p.Days > 0 {
			fmt.Fprintln(w, dim(fmt.Sprintf("tracked %d days", p.Days)))
		}

		if len(p.Stats) == 0 {
			fmt.Fprintln(w, dim("no price data"))
			fmt.Fprintln(w)
			continue
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Retailer", "Low", "High", "Avg", ""})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for i, st := range p.Stats {
			var tags string
			if i == 0 {
				tags = green("best value")
			}
			if p.Best.Available() && p.Best.Retailer == st.Retailer {
				if tags != "" {
					tags += ", "
				}
				tags += cyan("today's best")
			}
			data = append(data, []string{
				catalog.DisplayName(st.Retailer),
				fmt.Sprintf("$%.2f", st.Low),
				fmt.Sprintf("$%.2f", st.High),
				fmt.Sprintf("$%.2f", st.Avg),
				tags,
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}
