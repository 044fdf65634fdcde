package mcpserver

import (
	"context"

	"github.com/apitap/apitap/capture"
	"github.com/apitap/apitap/conformance"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type checkTrafficInput struct {
	Spec         specInput    `json:"spec"                    jsonschema:"The contract to check against"`
	Traffic      trafficInput `json:"traffic"                 jsonschema:"The captured traffic to check"`
	MatchMode    string       `json:"match_mode,omitempty"    jsonschema:"Path matching mode: suffix (default, tolerates base-path prefixes) or anchored"`
	TieBreak     string       `json:"tie_break,omitempty"     jsonschema:"Ambiguous template policy: first-declared (default) or most-specific"`
	FailuresOnly bool         `json:"failures_only,omitempty" jsonschema:"Return only records with conformance errors"`
	Offset       int          `json:"offset,omitempty"        jsonschema:"Skip the first N reports (for pagination)"`
	Limit        int          `json:"limit,omitempty"         jsonschema:"Maximum number of reports to return (default 100)"`
}

type checkError struct {
	Path        string `json:"path"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	ActualValue any    `json:"actual_value,omitempty"`
	ActualType  string `json:"actual_type,omitempty"`
	Expected    string `json:"expected,omitempty"`
}

type checkReport struct {
	ID             string            `json:"id,omitempty"`
	Method         string            `json:"method"`
	URL            string            `json:"url"`
	Template       string            `json:"template,omitempty"`
	PathParams     map[string]string `json:"path_params,omitempty"`
	Valid          bool              `json:"valid"`
	RequestErrors  []checkError      `json:"request_errors,omitempty"`
	ResponseErrors []checkError      `json:"response_errors,omitempty"`
}

type checkTrafficOutput struct {
	Checked  int           `json:"checked"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Returned int           `json:"returned"`
	Reports  []checkReport `json:"reports,omitempty"`
}

func handleCheckTraffic(_ context.Context, _ *mcp.CallToolRequest, input checkTrafficInput) (*mcp.CallToolResult, checkTrafficOutput, error) {
	opts, err := matchOptions(input.MatchMode, input.TieBreak)
	if err != nil {
		return errResult(err), checkTrafficOutput{}, nil
	}

	result, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), checkTrafficOutput{}, nil
	}
	validator, err := conformance.New(result, opts...)
	if err != nil {
		return errResult(err), checkTrafficOutput{}, nil
	}

	records, err := input.Traffic.resolve()
	if err != nil {
		return errResult(err), checkTrafficOutput{}, nil
	}

	output := checkTrafficOutput{Checked: len(records)}
	reports := make([]checkReport, 0, len(records))
	for _, rec := range records {
		report := validator.Check(rec)
		if report.Valid() {
			output.Passed++
			if input.FailuresOnly {
				continue
			}
		} else {
			output.Failed++
		}
		reports = append(reports, toCheckReport(rec, report))
	}

	output.Reports = paginate(reports, input.Offset, input.Limit)
	output.Returned = len(output.Reports)
	return nil, output, nil
}

// matchOptions builds validator options from explicit tool arguments,
// falling back to the APITAP_* configured defaults when omitted.
func matchOptions(matchMode, tieBreak string) ([]conformance.Option, error) {
	if matchMode == "" {
		matchMode = cfg.MatchMode
	}
	if tieBreak == "" {
		tieBreak = cfg.TieBreak
	}

	mode, err := conformance.ParseMatchMode(matchMode)
	if err != nil {
		return nil, err
	}
	policy, err := conformance.ParseTieBreak(tieBreak)
	if err != nil {
		return nil, err
	}
	return []conformance.Option{
		conformance.WithMatchMode(mode),
		conformance.WithTieBreak(policy),
	}, nil
}

func toCheckReport(rec *capture.Record, report *conformance.Report) checkReport {
	return checkReport{
		ID:             rec.ID,
		Method:         rec.Method,
		URL:            rec.URL,
		Template:       report.Template,
		PathParams:     report.PathParams,
		Valid:          report.Valid(),
		RequestErrors:  toCheckErrors(report.Request.Errors),
		ResponseErrors: toCheckErrors(report.Response.Errors),
	}
}

func toCheckErrors(errs []conformance.ValidationError) []checkError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]checkError, 0, len(errs))
	for _, e := range errs {
		out = append(out, checkError{
			Path:        e.Path,
			Code:        string(e.Code),
			Message:     e.Message,
			ActualValue: e.ActualValue,
			ActualType:  e.ActualType,
			Expected:    e.Expected,
		})
	}
	return out
}
