package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func ledgerCmd(client func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var fiscalYear string
	consistency := &cobra.Command{
		Use:   "consistency",
		Short: "Check that a fiscal year's debits equal its credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client().do(cmd.Context(), http.MethodGet,
				"/api/v1/fiscal-years/"+url.PathEscape(fiscalYear)+"/consistency", nil, nil)

			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				err = nil
			}
			if err != nil {
				return err
			}

			var result struct {
				Status      string `json:"status"`
				Consistent  bool   `json:"consistent"`
				TotalDebit  string `json:"total_debit"`
				TotalCredit string `json:"total_credit"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status: %s\n", result.Status)
			fmt.Fprintf(out, "Total debit:  %s\n", result.TotalDebit)
			fmt.Fprintf(out, "Total credit: %s\n", result.TotalCredit)

			if !result.Consistent {
				return errors.New("consistency check FAILED")
			}
			fmt.Fprintln(out, "Consistency check PASSED")
			return nil
		},
	}
	consistency.Flags().StringVar(&fiscalYear, "fiscal-year", "", "Fiscal year ID")
	_ = consistency.MarkFlagRequired("fiscal-year")

	cmd.AddCommand(consistency)
	return cmd
}
