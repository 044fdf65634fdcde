package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apitap/apitap/capture"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "550e8400-e29b-41d4-a716-446655440000"

func validRecord() *capture.Record {
	return &capture.Record{
		ID:              "req-1",
		Method:          "GET",
		URL:             "/users/" + testUserID,
		Status:          200,
		ResponseHeaders: map[string]string{"Content-Type": "application/json"},
		ResponseBody:    `{"id": "` + testUserID + `", "name": "Ada"}`,
	}
}

func TestCheckTrafficTool(t *testing.T) {
	t.Run("conformant record passes", func(t *testing.T) {
		parseCache.reset()
		input := checkTrafficInput{
			Spec:    specInput{Content: testSpecYAML},
			Traffic: trafficInput{Records: []*capture.Record{validRecord()}},
		}
		_, output, err := handleCheckTraffic(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)

		assert.Equal(t, 1, output.Checked)
		assert.Equal(t, 1, output.Passed)
		assert.Equal(t, 0, output.Failed)
		require.Len(t, output.Reports, 1)

		report := output.Reports[0]
		assert.Equal(t, "req-1", report.ID)
		assert.Equal(t, "/users/{userId}", report.Template)
		assert.Equal(t, map[string]string{"userId": testUserID}, report.PathParams)
		assert.True(t, report.Valid)
		assert.Empty(t, report.RequestErrors)
		assert.Empty(t, report.ResponseErrors)
	})

	t.Run("violations are reported with codes and locations", func(t *testing.T) {
		parseCache.reset()
		records := []*capture.Record{
			{
				Method:       "GET",
				URL:          "/users?limit=500",
				Status:       200,
				ResponseBody: `[]`,
			},
			{
				Method: "GET",
				URL:    "/unknown",
				Status: 200,
			},
		}
		input := checkTrafficInput{
			Spec:    specInput{Content: testSpecYAML},
			Traffic: trafficInput{Records: records},
		}
		_, output, err := handleCheckTraffic(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)

		assert.Equal(t, 2, output.Checked)
		assert.Equal(t, 0, output.Passed)
		assert.Equal(t, 2, output.Failed)
		require.Len(t, output.Reports, 2)

		rangeReport := output.Reports[0]
		assert.False(t, rangeReport.Valid)
		require.Len(t, rangeReport.RequestErrors, 1)
		assert.Equal(t, "RANGE_VIOLATION", rangeReport.RequestErrors[0].Code)
		assert.Equal(t, "limit", rangeReport.RequestErrors[0].Path)

		notFound := output.Reports[1]
		assert.False(t, notFound.Valid)
		require.NotEmpty(t, notFound.RequestErrors)
		assert.Equal(t, "PATH_NOT_FOUND", notFound.RequestErrors[0].Code)
		assert.Empty(t, notFound.Template)
	})

	t.Run("failures_only drops passing records", func(t *testing.T) {
		parseCache.reset()
		records := []*capture.Record{
			validRecord(),
			{Method: "PATCH", URL: "/users/" + testUserID, Status: 200},
		}
		input := checkTrafficInput{
			Spec:         specInput{Content: testSpecYAML},
			Traffic:      trafficInput{Records: records},
			FailuresOnly: true,
		}
		_, output, err := handleCheckTraffic(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)

		assert.Equal(t, 2, output.Checked)
		assert.Equal(t, 1, output.Passed)
		assert.Equal(t, 1, output.Failed)
		require.Len(t, output.Reports, 1)
		assert.Equal(t, "METHOD_NOT_ALLOWED", output.Reports[0].RequestErrors[0].Code)
	})

	t.Run("anchored mode rejects prefixed paths", func(t *testing.T) {
		parseCache.reset()
		rec := validRecord()
		rec.URL = "/api/v2/users/" + testUserID
		input := checkTrafficInput{
			Spec:      specInput{Content: testSpecYAML},
			Traffic:   trafficInput{Records: []*capture.Record{rec}},
			MatchMode: "anchored",
		}
		_, output, err := handleCheckTraffic(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)
		require.Len(t, output.Reports, 1)
		assert.Equal(t, "PATH_NOT_FOUND", output.Reports[0].RequestErrors[0].Code)
	})

	t.Run("invalid match mode", func(t *testing.T) {
		parseCache.reset()
		input := checkTrafficInput{
			Spec:      specInput{Content: testSpecYAML},
			Traffic:   trafficInput{Records: []*capture.Record{validRecord()}},
			MatchMode: "fuzzy",
		}
		result, _, err := handleCheckTraffic(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})

	t.Run("traffic from a records file", func(t *testing.T) {
		parseCache.reset()
		path := filepath.Join(t.TempDir(), "traffic.json")
		src := `[{"method": "GET", "url": "/users/` + testUserID + `", "status": 200,
  "responseBody": {"id": "` + testUserID + `", "name": "Ada"}}]`
		require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

		input := checkTrafficInput{
			Spec:    specInput{Content: testSpecYAML},
			Traffic: trafficInput{File: path},
		}
		_, output, err := handleCheckTraffic(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)
		assert.Equal(t, 1, output.Checked)
		assert.Equal(t, 1, output.Passed)
	})

	t.Run("missing traffic input", func(t *testing.T) {
		parseCache.reset()
		input := checkTrafficInput{
			Spec: specInput{Content: testSpecYAML},
		}
		result, _, err := handleCheckTraffic(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.IsError)
	})

	t.Run("pagination", func(t *testing.T) {
		parseCache.reset()
		records := []*capture.Record{validRecord(), validRecord(), validRecord()}
		input := checkTrafficInput{
			Spec:    specInput{Content: testSpecYAML},
			Traffic: trafficInput{Records: records},
			Offset:  1,
			Limit:   1,
		}
		_, output, err := handleCheckTraffic(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)
		assert.Equal(t, 3, output.Checked)
		assert.Equal(t, 1, output.Returned)
		require.Len(t, output.Reports, 1)
	})
}
