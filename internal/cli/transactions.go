package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jask/expensetracker/internal/aggregate"
	"github.com/jask/expensetracker/internal/app"
	"github.com/jask/expensetracker/internal/domain"
	"github.com/jask/expensetracker/internal/logger"
)

func (r *runner) transactionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List, add and delete transactions",
	}
	cmd.AddCommand(r.listCommand(), r.addCommand(), r.deleteCommand())
	return cmd
}

func (r *runner) listCommand() *cobra.Command {
	var (
		month    string
		page     int
		pageSize int
		cached   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				var txs []domain.Transaction
				if cached {
					snap, err := a.Ledger.Cached(ctx)
					if err != nil {
						return fmt.Errorf("no cached transactions: %w", err)
					}
					txs = snap.Transactions
				} else {
					var err error
					if txs, err = a.Ledger.Refresh(ctx); err != nil {
						return err
					}
				}
				if pageSize <= 0 {
					pageSize = a.Config.UI.PageSize
				}
				groups := aggregate.GroupByMonth(txs)
				if _, ok := groups[month]; !ok {
					return fmt.Errorf("no transactions in %q; have %s", month, strings.Join(groups.Keys(), ", "))
				}
				p := aggregate.PageOf(groups.Get(month), page, pageSize)
				log := logger.FromContext(ctx)
				log.Debug().Int("rows", len(txs)).Str("month", month).Int("page", p.Number).Msg("listing")
				writeTransactions(cmd.OutOrStdout(), a.Config.UI.CurrencySymbol, p)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", aggregate.AllKey, `month to show, e.g. "January 2024"`)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (default ui.page_size)")
	cmd.Flags().BoolVar(&cached, "cached", false, "read the local snapshot instead of the server")
	return cmd
}

func writeTransactions(out io.Writer, symbol string, p aggregate.Page) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, tx := range p.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Type, tx.Category, domain.FormatSigned(symbol, tx.Type, tx.Amount), tx.Description)
	}
	_ = w.Flush()
	fmt.Fprintf(out, "page %d of %d (%d transactions)\n", p.Number, p.PageCount(), p.Total)
}

func (r *runner) addCommand() *cobra.Command {
	var typ, amount, date, category, description string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amt, err := decimal.NewFromString(strings.ReplaceAll(amount, ",", ""))
			if err != nil {
				return &domain.ValidationError{Field: "amount", Message: "Amount must be a number."}
			}
			if err := domain.ValidateDate("date", date); err != nil {
				return err
			}
			d, _ := domain.ParseDate(date)
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				rows, err := a.Ledger.Add(ctx, domain.NewTransaction{
					Type:        domain.TransactionType(typ),
					Amount:      amt,
					Date:        d,
					Category:    category,
					Description: description,
				})
				if err != nil {
					return err
				}
				log := logger.FromContext(ctx)
				log.Info().Str("category", category).Msg("transaction added")
				fmt.Fprintf(cmd.OutOrStdout(), "Transaction added. %d transactions on record.\n", len(rows))
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&typ, "type", string(domain.Expense), "Income or Expense")
	f.StringVar(&amount, "amount", "", "amount, greater than zero")
	f.StringVar(&date, "date", domain.Date{Time: time.Now()}.String(), "date as YYYY-MM-DD")
	f.StringVar(&category, "category", "", "category, e.g. Food or Salary")
	f.StringVar(&description, "description", "", "free text")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (r *runner) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return r.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				if _, err := a.Ledger.Delete(ctx, id); err != nil {
					return err
				}
				log := logger.FromContext(ctx)
				log.Info().Int64("id", id).Msg("transaction deleted")
				fmt.Fprintf(cmd.OutOrStdout(), "Transaction %d deleted.\n", id)
				return nil
			})
		},
	}
}
