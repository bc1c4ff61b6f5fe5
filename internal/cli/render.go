package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/store"
)

// Renderer writes items and totals to a terminal. Colors are chosen from the
// output writer's capabilities, so piping to a file yields plain text.
type Renderer struct {
	w        io.Writer
	currency string

	header   lipgloss.Style
	cell     lipgloss.Style
	muted    lipgloss.Style
	bought   lipgloss.Style
	total    lipgloss.Style
	errStyle lipgloss.Style
	priority map[domain.Priority]lipgloss.Style
}

// NewRenderer creates a renderer writing to w. Prices are prefixed with currency.
func NewRenderer(w io.Writer, currency string) *Renderer {
	re := lipgloss.NewRenderer(w)
	return &Renderer{
		w:        w,
		currency: currency,
		header:   re.NewStyle().Bold(true).Foreground(lipgloss.Color("#7AA2F7")).Padding(0, 1),
		cell:     re.NewStyle().Padding(0, 1),
		muted:    re.NewStyle().Foreground(lipgloss.Color("#737AA2")),
		bought:   re.NewStyle().Foreground(lipgloss.Color("#737AA2")).Strikethrough(true).Padding(0, 1),
		total:    re.NewStyle().Bold(true).Foreground(lipgloss.Color("#9ECE6A")),
		errStyle: re.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7768E")),
		priority: map[domain.Priority]lipgloss.Style{
			domain.PriorityHigh:   re.NewStyle().Foreground(lipgloss.Color("#F7768E")).Padding(0, 1),
			domain.PriorityMedium: re.NewStyle().Foreground(lipgloss.Color("#E0AF68")).Padding(0, 1),
			domain.PriorityLow:    re.NewStyle().Foreground(lipgloss.Color("#9ECE6A")).Padding(0, 1),
		},
	}
}

var itemColumns = []string{"ID", "Name", "Source", "Category", "Priority", "Price", "Bought"}

const priorityColumn = 4

// Items renders the given items as a table followed by the total line.
func (r *Renderer) Items(items []domain.Item, total float64, filters domain.FilterOptions) {
	if filters.HasActive() {
		fmt.Fprintln(r.w, r.muted.Render("Filters: "+describeFilters(filters)))
	}

	if len(items) == 0 {
		fmt.Fprintln(r.w, r.muted.Render("No items."))
	} else {
		rows := make([][]string, 0, len(items))
		for _, it := range items {
			bought := ""
			if it.Bought {
				bought = "yes"
			}
			rows = append(rows, []string{
				it.ID, it.Name, it.Source, it.Category, string(it.Priority),
				r.Price(store.ParsePrice(it.Price)), bought,
			})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(r.muted).
			Headers(itemColumns...).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return r.header
				}
				if row >= 0 && row < len(items) {
					if items[row].Bought {
						return r.bought
					}
					if col == priorityColumn {
						if s, ok := r.priority[items[row].Priority]; ok {
							return s
						}
					}
				}
				return r.cell
			})
		fmt.Fprintln(r.w, t.String())
	}

	fmt.Fprintf(r.w, "%s %s\n",
		r.total.Render(fmt.Sprintf("Total: %s", r.Price(total))),
		r.muted.Render(fmt.Sprintf("(%d %s)", len(items), plural(len(items), "item", "items"))),
	)
}

// Item renders a single item.
func (r *Renderer) Item(item domain.Item) {
	r.Items([]domain.Item{item}, store.ParsePrice(item.Price), domain.FilterOptions{})
}

// Lines prints one value per line, or a placeholder when values is empty.
func (r *Renderer) Lines(values []string) {
	if len(values) == 0 {
		fmt.Fprintln(r.w, r.muted.Render("None."))
		return
	}
	for _, v := range values {
		fmt.Fprintln(r.w, v)
	}
}

// Message prints a plain status line.
func (r *Renderer) Message(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Error prints msg in the error style.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.w, r.errStyle.Render(msg))
}

// Price formats v with the configured currency and thousands separators.
// Whole amounts have no decimals.
func (r *Renderer) Price(v float64) string {
	return r.currency + formatAmount(v)
}

var amountPrinter = message.NewPrinter(language.English)

// formatAmount groups thousands with commas and keeps two decimals only for
// fractional amounts.
func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return amountPrinter.Sprintf("%.0f", v)
	}
	return amountPrinter.Sprintf("%.2f", v)
}

func describeFilters(f domain.FilterOptions) string {
	var parts []string
	if f.Source != "" {
		parts = append(parts, "source="+f.Source)
	}
	if f.Category != "" {
		parts = append(parts, "category="+f.Category)
	}
	if f.Priority != "" {
		parts = append(parts, "priority="+string(f.Priority))
	}
	return strings.Join(parts, " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
