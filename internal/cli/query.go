package cli

import (
	"lista-cli/internal/filter"
	"lista-cli/internal/model"

	"github.com/spf13/cobra"
)

// queryFlags are shared by `tasks list` and `lists list`.
type queryFlags struct {
	search  string
	filters []string
	label   string
	tab     string
	sort    string
}

func (q *queryFlags) register(cmd *cobra.Command, withTab bool) {
	cmd.Flags().StringVar(&q.search, "search", "", "Case-insensitive text search")
	cmd.Flags().StringArrayVar(&q.filters, "filter", nil, "Filter key=only|others|all (repeatable; keys: completed, dueDate, size:XS..XL, label:<name>)")
	cmd.Flags().StringVar(&q.label, "label", "", "Only entries carrying this label")
	cmd.Flags().StringVar(&q.sort, "sort", "", "Sort field[:asc|desc] for this listing (default: stored preference)")
	if withTab {
		cmd.Flags().StringVar(&q.tab, "tab", "", "todos|archive (default: stored tab)")
	}
}

func (q *queryFlags) query() (filter.Query, error) {
	out := filter.Query{Search: q.search, SelectedLabel: q.label}
	for _, s := range q.filters {
		lf, err := model.ParseLabelFilter(s)
		if err != nil {
			return filter.Query{}, err
		}
		out.Filters = out.Filters.Set(lf.Key, lf.State)
	}
	if q.tab != "" {
		tab, err := model.ParseTab(q.tab)
		if err != nil {
			return filter.Query{}, err
		}
		out.Tab = tab
	}
	return out, nil
}

// sortSpec returns the --sort override, if any.
func (q *queryFlags) sortSpec() (*model.SortSpec, error) {
	if q.sort == "" {
		return nil, nil
	}
	spec, err := model.ParseSortSpec(q.sort)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
