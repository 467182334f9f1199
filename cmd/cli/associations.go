package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type association struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	AccountNumber string `json:"account_number"`
}

// seedFile is the YAML layout accepted by "associations load".
type seedFile struct {
	Associations []struct {
		Label   string `yaml:"label"`
		Account string `yaml:"account"`
	} `yaml:"associations"`
}

func associationsCmd(client func() *apiClient) *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "associations",
		Short: "Manage label to account associations",
	}
	cmd.PersistentFlags().StringVar(&company, "company", "", "Company ID")
	_ = cmd.MarkPersistentFlagRequired("company")

	path := func() string {
		return "/api/v1/companies/" + url.PathEscape(company) + "/associations"
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List associations",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client().do(cmd.Context(), http.MethodGet, path(), nil, nil)
			if err != nil {
				return err
			}

			var assocs []association
			if err := json.Unmarshal(body, &assocs); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tACCOUNT")
			for _, a := range assocs {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, truncate(a.Label, 40), a.AccountNumber)
			}
			return tw.Flush()
		},
	}

	set := &cobra.Command{
		Use:   "set LABEL ACCOUNT",
		Short: "Map a label to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client().do(cmd.Context(), http.MethodPut, path(), map[string]string{
				"label":          args[0],
				"account_number": args[1],
			}, nil)
			if err != nil {
				return err
			}
			printRaw(cmd.OutOrStdout(), body)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an association",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client().do(cmd.Context(), http.MethodDelete, path()+"/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	var seedPath string
	load := &cobra.Command{
		Use:   "load",
		Short: "Load associations from a YAML seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(seedPath)
			if err != nil {
				return err
			}

			var seed seedFile
			if err := yaml.Unmarshal(data, &seed); err != nil {
				return fmt.Errorf("failed to parse seed file: %w", err)
			}

			records := make([]map[string]string, 0, len(seed.Associations))
			for _, a := range seed.Associations {
				records = append(records, map[string]string{"label": a.Label, "account": a.Account})
			}

			body, err := client().do(cmd.Context(), http.MethodPost, "/api/v1/imports/associations", map[string]any{
				"company_id": company,
				"records":    records,
			}, nil)
			if err != nil {
				return err
			}
			printRaw(cmd.OutOrStdout(), body)
			return nil
		},
	}
	load.Flags().StringVarP(&seedPath, "file", "f", "", "Seed file (YAML)")
	_ = load.MarkFlagRequired("file")

	cmd.AddCommand(list, set, del, load)
	return cmd
}
