package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/gosales/internal/adapter/http/dto"
)

type filterFlags struct {
	year   int
	month  int
	search string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.year, "year", 0, "Invoice year (0 for all years)")
	cmd.Flags().IntVar(&f.month, "month", 0, "Invoice month 1-12 (0 for all months)")
	cmd.Flags().StringVarP(&f.search, "query", "q", "", "Search text; overrides year and month")
}

func (f *filterFlags) values() url.Values {
	q := url.Values{}
	if f.year != 0 {
		q.Set("year", strconv.Itoa(f.year))
	}
	if f.month != 0 {
		q.Set("month", strconv.Itoa(f.month))
	}
	if s := strings.TrimSpace(f.search); s != "" {
		q.Set("q", s)
	}
	return q
}

func salesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Sales operations",
	}
	cmd.AddCommand(salesListCmd(opts), salesReorderCmd(opts), salesImportCmd(opts), salesExportCmd(opts))
	return cmd
}

func salesListCmd(opts *options) *cobra.Command {
	var filter filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sales in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListSalesResponse
			if err := newAPIClient(opts).getJSON(cmd.Context(), "/api/v1/sales", filter.values(), &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				printJSON(out, resp)
				return nil
			}
			renderSales(out, &resp)
			return nil
		},
	}
	filter.register(cmd)
	return cmd
}

func renderSales(w io.Writer, resp *dto.ListSalesResponse) {
	rows := make([][]string, len(resp.Sales))
	for i, s := range resp.Sales {
		status := ""
		if s.Status != nil {
			status = s.Status.Label
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			truncate(s.Client, 28),
			truncate(s.Area, 16),
			string(s.Currency),
			s.ReceiptNumber,
			s.InvoiceDate.String(),
			s.Total.StringFixed(2),
			status,
		}
	}
	renderTable(w, []string{"#", "Client", "Area", "Cur", "Receipt", "Invoice", "Total", "Status"}, rows, 0, 6)

	sum := resp.Summary
	printFooter(w, "%d of %d sales | S/ %s | $ %s", resp.Count, resp.Total, sum.LocalRounded.StringFixed(2), sum.ForeignRounded.StringFixed(2))
	if sum.CombinedLocal.Valid {
		printFooter(w, "combined at %s: S/ %s", sum.Rate.Decimal.String(), sum.CombinedLocal.Decimal.StringFixed(2))
	}
	if sum.Unclassified > 0 {
		printFooter(w, "%d sales with an unknown currency", sum.Unclassified)
	}
}

func salesReorderCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder ACTIVE_ID OVER_ID",
		Short: "Move a sale into another sale's slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ReorderResponse
			req := dto.ReorderRequest{ActiveID: args[0], OverID: args[1]}
			if err := newAPIClient(opts).postJSON(cmd.Context(), "/api/v1/sales/reorder", req, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				printJSON(out, resp)
				return nil
			}
			rows := make([][]string, len(resp.Order))
			for i, id := range resp.Order {
				rows[i] = []string{strconv.Itoa(i), id}
			}
			renderTable(out, []string{"Position", "Sale"}, rows, 0)
			return nil
		},
	}
}

func salesImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import sales from an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
			if format != "xlsx" && format != "csv" {
				return fmt.Errorf("unsupported file type %q: use .xlsx or .csv", filepath.Ext(path))
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			client := newAPIClient(opts)
			body, err := client.do(cmd.Context(), http.MethodPost, "/api/v1/sales/import", url.Values{"format": {format}}, "application/octet-stream", bytes.NewReader(data))
			if err != nil {
				return err
			}
			var resp dto.ImportResponse
			if err := decode(body, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				printJSON(out, resp)
				return nil
			}
			fmt.Fprintf(out, "imported %d sales\n", len(resp.Created))
			if len(resp.Failed) > 0 {
				rows := make([][]string, len(resp.Failed))
				for i, f := range resp.Failed {
					rows[i] = []string{strconv.Itoa(f.Row), truncate(f.Error, 60)}
				}
				renderTable(out, []string{"Row", "Error"}, rows, 0)
			}
			return nil
		},
	}
}

func salesExportCmd(opts *options) *cobra.Command {
	var (
		filter filterFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered sales as xlsx, pdf or csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			q := filter.values()
			q.Set("format", format)

			data, err := newAPIClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/sales/export", q, "", nil)
			if err != nil {
				return err
			}

			if output == "" {
				output = "sales." + format
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}
	filter.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "Export format: xlsx, pdf or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default sales.<format>)")
	return cmd
}
