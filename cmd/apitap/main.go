package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apitap/apitap"
	"github.com/apitap/apitap/capture"
	"github.com/apitap/apitap/conformance"
	"github.com/apitap/apitap/internal/mcpserver"
	"github.com/apitap/apitap/specdoc"
)

var rootCmd = &cobra.Command{
	Use:     "apitap",
	Short:   "Check captured HTTP traffic against an OpenAPI contract",
	Version: apitap.Version(),
	Long: `apitap validates recorded HTTP requests and responses against the
OpenAPI (2.0 or 3.x) contract the service claims to implement.

Each traffic record is matched to a declared path template and operation,
then its parameters, bodies, status code, and headers are checked against
the declared schemas. Violations are reported with a stable error code and
the location of the offending value.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("APITAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("match-mode", "suffix", "path matching mode (suffix, anchored)")
	rootCmd.PersistentFlags().String("tie-break", "first-declared", "ambiguous template policy (first-declared, most-specific)")
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("match-mode", rootCmd.PersistentFlags().Lookup("match-mode"))
	_ = viper.BindPFlag("tie-break", rootCmd.PersistentFlags().Lookup("tie-break"))
}

func registerCommands() {
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(mcpCmd())
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <spec>",
		Short: "Parse a contract and print a structural summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := specdoc.New().ParseFile(args[0])
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(parseSummary(result))
			}
			printParseText(args[0], result)
			return nil
		},
	}
}

type specSummary struct {
	Version   string   `json:"version"`
	Format    string   `json:"format"`
	Title     string   `json:"title,omitempty"`
	Paths     int      `json:"paths"`
	Templates []string `json:"templates"`
	Warnings  []string `json:"warnings,omitempty"`
}

func parseSummary(result *specdoc.ParseResult) specSummary {
	s := specSummary{
		Version:   result.Version,
		Format:    string(result.SourceFormat),
		Paths:     result.Document.Paths.Len(),
		Templates: result.Document.Paths.Templates(),
		Warnings:  result.Warnings,
	}
	if result.Document.Info != nil {
		s.Title = result.Document.Info.Title
	}
	return s
}

func printParseText(path string, result *specdoc.ParseResult) {
	fmt.Printf("Specification: %s\n", path)
	fmt.Printf("Version: %s (%s)\n", result.Version, result.SourceFormat)
	if result.Document.Info != nil {
		fmt.Printf("Title: %s\n", result.Document.Info.Title)
	}
	fmt.Printf("Load Time: %v\n", result.LoadTime)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Template", "Methods"})
	for _, template := range result.Document.Paths.Templates() {
		item := result.Document.Paths.Get(template)
		methods := make([]string, 0, len(item.Operations()))
		for method := range item.Operations() {
			methods = append(methods, strings.ToUpper(method))
		}
		sort.Strings(methods)
		tw.AppendRow(table.Row{template, strings.Join(methods, ", ")})
	}
	tw.Render()

	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}

type checkFlags struct {
	har          bool
	failuresOnly bool
}

func checkCmd() *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check <spec> <traffic>",
		Short: "Check a traffic file against a contract",
		Long: `Check reads captured traffic (a JSON records file, or an HTTP Archive
with --har) and validates every record against the contract. The exit
status is 1 when any record fails conformance.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := buildValidator(args[0])
			if err != nil {
				return err
			}

			var records []*capture.Record
			if f.har {
				records, err = capture.ReadHARFile(args[1])
			} else {
				records, err = capture.ReadRecordsFile(args[1])
			}
			if err != nil {
				return err
			}

			failed := printCheckResults(validator, records, f.failuresOnly)
			if failed > 0 {
				// Mirror diff-style tools: nonconformant traffic is exit 1.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.har, "har", false, "treat the traffic file as an HTTP Archive (HAR 1.2)")
	cmd.Flags().BoolVar(&f.failuresOnly, "failures-only", false, "report only records with conformance errors")
	return cmd
}

func buildValidator(specPath string) (*conformance.Validator, error) {
	mode, err := conformance.ParseMatchMode(viper.GetString("match-mode"))
	if err != nil {
		return nil, err
	}
	policy, err := conformance.ParseTieBreak(viper.GetString("tie-break"))
	if err != nil {
		return nil, err
	}
	result, err := specdoc.New().ParseFile(specPath)
	if err != nil {
		return nil, err
	}
	return conformance.New(result,
		conformance.WithMatchMode(mode),
		conformance.WithTieBreak(policy),
	)
}

type recordReport struct {
	ID     string              `json:"id,omitempty"`
	Method string              `json:"method"`
	URL    string              `json:"url"`
	Report *conformance.Report `json:"report"`
}

func printCheckResults(validator *conformance.Validator, records []*capture.Record, failuresOnly bool) int {
	reports := make([]recordReport, 0, len(records))
	failed := 0
	for _, rec := range records {
		report := validator.Check(rec)
		if !report.Valid() {
			failed++
		} else if failuresOnly {
			continue
		}
		reports = append(reports, recordReport{ID: rec.ID, Method: rec.Method, URL: rec.URL, Report: report})
	}

	if viper.GetBool("json") {
		_ = printJSON(reports)
		return failed
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"#", "Method", "URL", "Template", "Result", "Errors"})
	for i, r := range reports {
		result := "PASS"
		if !r.Report.Valid() {
			result = "FAIL"
		}
		tw.AppendRow(table.Row{i + 1, r.Method, r.URL, r.Report.Template, result, summarizeErrors(r.Report)})
	}
	tw.Render()
	fmt.Printf("\n%d record(s) checked, %d failed\n", len(records), failed)
	return failed
}

func summarizeErrors(report *conformance.Report) string {
	var parts []string
	for _, e := range report.Request.Errors {
		parts = append(parts, fmt.Sprintf("%s at %s", e.Code, e.Path))
	}
	for _, e := range report.Response.Errors {
		parts = append(parts, fmt.Sprintf("%s at %s", e.Code, e.Path))
	}
	return strings.Join(parts, "; ")
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Starts a Model Context Protocol server that exposes parse_spec and
check_traffic as tools. Intended to be launched by an MCP client;
defaults are configured through APITAP_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
