package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type importFlags struct {
	file           string
	company        string
	fiscalYear     string
	mode           string
	counterpart    string
	delimiter      string
	assign         []string
	assignRecord   []string
	idempotencyKey string
}

type assignment struct {
	Label   string `json:"label,omitempty"`
	Record  *int   `json:"record,omitempty"`
	Account string `json:"account"`
}

type importRequest struct {
	CompanyID          string       `json:"company_id"`
	FiscalYearID       string       `json:"fiscal_year_id"`
	Mode               string       `json:"mode,omitempty"`
	CounterpartAccount string       `json:"counterpart_account,omitempty"`
	Delimiter          string       `json:"delimiter,omitempty"`
	Statement          string       `json:"statement"`
	Assignments        []assignment `json:"assignments,omitempty"`
}

func importCmd(client func() *apiClient) *cobra.Command {
	flags := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statements",
	}

	cmd.PersistentFlags().StringVarP(&flags.file, "file", "f", "", "Statement file (CSV)")
	cmd.PersistentFlags().StringVar(&flags.company, "company", "", "Company ID")
	cmd.PersistentFlags().StringVar(&flags.fiscalYear, "fiscal-year", "", "Fiscal year ID")
	cmd.PersistentFlags().StringVar(&flags.mode, "mode", "", "Balancing mode: monthly or per_line")
	cmd.PersistentFlags().StringVar(&flags.counterpart, "counterpart", "", "Counterpart (bank) account number")
	cmd.PersistentFlags().StringVar(&flags.delimiter, "delimiter", "", "Field delimiter")
	cmd.PersistentFlags().StringArrayVar(&flags.assign, "assign", nil, "Assign LABEL=ACCOUNT to every line with the label")
	cmd.PersistentFlags().StringArrayVar(&flags.assignRecord, "assign-record", nil, "Assign INDEX=ACCOUNT to a single record")
	_ = cmd.MarkPersistentFlagRequired("file")
	_ = cmd.MarkPersistentFlagRequired("company")
	_ = cmd.MarkPersistentFlagRequired("fiscal-year")

	preview := &cobra.Command{
		Use:   "preview",
		Short: "Parse and balance a statement without storing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			body, err := client().do(cmd.Context(), http.MethodPost, "/api/v1/imports/preview", req, nil)
			if err != nil {
				return err
			}
			printRaw(cmd.OutOrStdout(), body)
			return nil
		},
	}

	confirm := &cobra.Command{
		Use:   "confirm",
		Short: "Import a statement into the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}

			var headers map[string]string
			if flags.idempotencyKey != "" {
				headers = map[string]string{"Idempotency-Key": flags.idempotencyKey}
			}

			body, err := client().do(cmd.Context(), http.MethodPost, "/api/v1/imports", req, headers)
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadGateway {
				// Partial import: show what was stored before failing.
				printRaw(cmd.OutOrStdout(), body)
			}
			if err != nil {
				return err
			}
			printRaw(cmd.OutOrStdout(), body)
			return nil
		},
	}
	confirm.Flags().StringVar(&flags.idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")

	cmd.AddCommand(preview, confirm)
	return cmd
}

func (f *importFlags) request() (*importRequest, error) {
	data, err := os.ReadFile(f.file)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}

	req := &importRequest{
		CompanyID:          f.company,
		FiscalYearID:       f.fiscalYear,
		Mode:               f.mode,
		CounterpartAccount: f.counterpart,
		Delimiter:          f.delimiter,
		Statement:          string(data),
	}

	for _, a := range f.assign {
		label, account, err := splitAssignment(a)
		if err != nil {
			return nil, err
		}
		req.Assignments = append(req.Assignments, assignment{Label: label, Account: account})
	}

	for _, a := range f.assignRecord {
		raw, account, err := splitAssignment(a)
		if err != nil {
			return nil, err
		}
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid record index %q", raw)
		}
		req.Assignments = append(req.Assignments, assignment{Record: &idx, Account: account})
	}

	return req, nil
}

// splitAssignment splits KEY=ACCOUNT on the last '=' so labels may contain one.
func splitAssignment(s string) (string, string, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("invalid assignment %q, expected KEY=ACCOUNT", s)
	}
	return s[:i], s[i+1:], nil
}
