package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tradeking-trader/internal/broker"
	"tradeking-trader/internal/errors"
)

func newNewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Search market news",
	}

	requireNews := func() error {
		if app.News == nil {
			return errors.Wrap(errors.ErrNotAuthenticated, "news access requires API credentials")
		}
		return nil
	}

	var (
		keywords  []string
		symbols   []string
		maxHits   int
		startDate string
		endDate   string
	)
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search news by keywords or symbols",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireNews(); err != nil {
				return err
			}
			articles, err := app.News.SearchNews(cmd.Context(), broker.NewsSearchRequest{
				Keywords:  keywords,
				Symbols:   symbols,
				MaxHits:   maxHits,
				StartDate: startDate,
				EndDate:   endDate,
			})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tHEADLINE")
			for _, a := range articles {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, a.Date.Format("2006-01-02"), a.Headline)
			}
			return w.Flush()
		},
	}
	searchCmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "Search keywords (repeatable)")
	searchCmd.Flags().StringSliceVarP(&symbols, "symbol", "s", nil, "Symbols to search news for (repeatable)")
	searchCmd.Flags().IntVar(&maxHits, "max-hits", 0, "Maximum number of articles")
	searchCmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, requires --end)")
	searchCmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, requires --start)")

	showCmd := &cobra.Command{
		Use:   "show <article-id>",
		Short: "Show a news article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireNews(); err != nil {
				return err
			}
			article, err := app.News.Article(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n\n%s\n", article.Headline, article.Date.Format("2006-01-02 15:04"), article.Story)
			return nil
		},
	}

	cmd.AddCommand(searchCmd, showCmd)
	return cmd
}
