package main

import (
	"io"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iho/gosales/internal/adapter/http/dto"
)

func reportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sales aggregates",
	}
	cmd.AddCommand(
		groupReportCmd(opts, "areas", "Totals per area"),
		groupReportCmd(opts, "clients", "Totals per client"),
		currencyReportCmd(opts),
		monthlyReportCmd(opts),
		compareReportCmd(opts),
	)
	return cmd
}

func groupReportCmd(opts *options, name, short string) *cobra.Command {
	var (
		filter  filterFlags
		convert bool
	)

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := filter.values()
			if convert {
				q.Set("convert", "true")
			}
			return runGroupReport(cmd, opts, "/api/v1/reports/"+name, q)
		},
	}
	filter.register(cmd)
	cmd.Flags().BoolVar(&convert, "convert", false, "Express foreign amounts in local currency")
	return cmd
}

func monthlyReportCmd(opts *options) *cobra.Command {
	var (
		year    int
		convert bool
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Twelve monthly totals of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"year": {strconv.Itoa(year)}}
			if convert {
				q.Set("convert", "true")
			}
			return runGroupReport(cmd, opts, "/api/v1/reports/monthly", q)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year to report")
	cmd.Flags().BoolVar(&convert, "convert", false, "Express foreign amounts in local currency")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func runGroupReport(cmd *cobra.Command, opts *options, path string, q url.Values) error {
	var resp dto.GroupSummaryResponse
	if err := newAPIClient(opts).getJSON(cmd.Context(), path, q, &resp); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		printJSON(out, resp)
		return nil
	}
	renderGroups(out, &resp)
	return nil
}

func renderGroups(w io.Writer, resp *dto.GroupSummaryResponse) {
	if !resp.Available {
		printFooter(w, "exchange rate unavailable; converted totals cannot be computed")
		return
	}
	rows := make([][]string, len(resp.Groups))
	for i, g := range resp.Groups {
		rows[i] = []string{truncate(g.Key, 32), strconv.Itoa(g.Count), g.Total.StringFixed(2)}
	}
	renderTable(w, []string{"Group", "Sales", "Total"}, rows, 1, 2)
	if resp.Converted {
		printFooter(w, "amounts in S/")
	}
	if resp.Unclassified > 0 {
		printFooter(w, "%d sales with an unknown currency", resp.Unclassified)
	}
}

func currencyReportCmd(opts *options) *cobra.Command {
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Totals per currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.CurrencySummaryResponse
			if err := newAPIClient(opts).getJSON(cmd.Context(), "/api/v1/reports/currency", filter.values(), &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				printJSON(out, resp)
				return nil
			}
			rows := [][]string{
				{"S/", strconv.Itoa(resp.LocalCount), resp.LocalRounded.StringFixed(2)},
				{"$", strconv.Itoa(resp.ForeignCount), resp.ForeignRounded.StringFixed(2)},
			}
			if resp.CombinedLocal.Valid {
				rows = append(rows, []string{"S/ combined", "", resp.CombinedLocal.Decimal.StringFixed(2)})
			}
			renderTable(out, []string{"Currency", "Sales", "Total"}, rows, 1, 2)
			if resp.Rate.Valid {
				printFooter(out, "rate %s", resp.Rate.Decimal.String())
			}
			return nil
		},
	}
	filter.register(cmd)
	return cmd
}

func compareReportCmd(opts *options) *cobra.Command {
	var (
		by      string
		convert bool
	)

	cmd := &cobra.Command{
		Use:   "compare YEAR_A YEAR_B",
		Short: "Compare two years by area or month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"a": {args[0]}, "b": {args[1]}, "by": {by}}
			if convert {
				q.Set("convert", "true")
			}

			var resp dto.ComparisonResponse
			if err := newAPIClient(opts).getJSON(cmd.Context(), "/api/v1/reports/compare", q, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				printJSON(out, resp)
				return nil
			}
			if !resp.Available {
				printFooter(out, "exchange rate unavailable; converted totals cannot be computed")
				return nil
			}
			printTitle(out, strconv.Itoa(resp.YearA)+" vs "+strconv.Itoa(resp.YearB))
			rows := make([][]string, 0, len(resp.Rows)+1)
			for _, r := range resp.Rows {
				rows = append(rows, []string{truncate(r.Key, 24), r.A.StringFixed(2), r.B.StringFixed(2), r.Delta.StringFixed(2)})
			}
			rows = append(rows, []string{"Total", resp.TotalA.StringFixed(2), resp.TotalB.StringFixed(2), resp.TotalB.Sub(resp.TotalA).StringFixed(2)})
			renderTable(out, []string{string(resp.GroupBy), args[0], args[1], "Delta"}, rows, 1, 2, 3)
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", "area", "Row key: area or month")
	cmd.Flags().BoolVar(&convert, "convert", false, "Express foreign amounts in local currency")
	return cmd
}
