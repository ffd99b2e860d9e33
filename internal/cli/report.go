package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/expensetracker/internal/aggregate"
	"github.com/jask/expensetracker/internal/app"
	"github.com/jask/expensetracker/internal/domain"
)

func (r *runner) reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly and date range reports",
	}
	cmd.AddCommand(r.monthlyCommand(), r.customCommand())
	return cmd
}

func (r *runner) monthlyCommand() *cobra.Command {
	now := time.Now()
	var year, month int
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Income, expense and difference for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				rep, err := a.Reporter.Monthly(ctx, year, time.Month(month))
				if err != nil {
					return err
				}
				sym := a.Config.UI.CurrencySymbol
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %d\n", rep.Month, rep.Year)
				fmt.Fprintf(out, "%-12s %s\n", "Income", domain.FormatAmount(sym, rep.Summary.Income))
				fmt.Fprintf(out, "%-12s %s\n", "Expense", domain.FormatAmount(sym, rep.Summary.Expense))
				fmt.Fprintf(out, "%-12s %s\n", "Difference", domain.FormatAmount(sym, rep.Summary.Difference))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", now.Year(), "year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "month, 1-12")
	return cmd
}

func (r *runner) customCommand() *cobra.Command {
	now := time.Now()
	var start, end string
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Top categories between two dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := domain.ValidateDate("start", start); err != nil {
				return err
			}
			if err := domain.ValidateDate("end", end); err != nil {
				return err
			}
			s, _ := domain.ParseDate(start)
			e, _ := domain.ParseDate(end)
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				rep, err := a.Reporter.Custom(ctx, s, e)
				if err != nil {
					return err
				}
				sym := a.Config.UI.CurrencySymbol
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s to %s: %d transactions\n", rep.Start, rep.End, len(rep.Transactions))
				fmt.Fprintf(out, "Income %s, expense %s\n",
					domain.FormatAmount(sym, rep.IncomeTotal), domain.FormatAmount(sym, rep.ExpenseTotal))
				writeTotals(out, "Top income categories", sym, rep.Income)
				writeTotals(out, "Top expense categories", sym, rep.Expense)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", domain.NewDate(now.Year(), now.Month(), 1).String(), "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", domain.Date{Time: now}.String(), "last day, YYYY-MM-DD")
	return cmd
}

func writeTotals(out io.Writer, title, sym string, totals aggregate.CategoryTotals) {
	fmt.Fprintln(out, title+":")
	if len(totals) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	for _, t := range totals {
		fmt.Fprintf(out, "  %-16s %s\n", t.Category, domain.FormatAmount(sym, t.Total))
	}
}
