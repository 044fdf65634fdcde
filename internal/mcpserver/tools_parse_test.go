package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpecYAML = `openapi: "3.0.3"
info:
  title: User Service
  description: Manages user accounts
  version: "1.0.0"
paths:
  /users:
    get:
      operationId: listUsers
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            minimum: 1
            maximum: 100
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/User'
    post:
      operationId: createUser
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/NewUser'
      responses:
        "201":
          description: Created
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/User'
  /users/{userId}:
    get:
      operationId: getUser
      parameters:
        - name: userId
          in: path
          required: true
          schema:
            type: string
            format: uuid
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/User'
        default:
          description: Error
components:
  schemas:
    User:
      type: object
      required: [id, name]
      properties:
        id:
          type: string
          format: uuid
        name:
          type: string
        email:
          type: string
          format: email
    NewUser:
      type: object
      required: [name]
      properties:
        name:
          type: string
          minLength: 1
        email:
          type: string
          format: email
`

func TestParseSpecTool_Summary(t *testing.T) {
	parseCache.reset()
	input := parseSpecInput{
		Spec: specInput{Content: testSpecYAML},
	}
	_, output, err := handleParseSpec(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", output.Version)
	assert.Equal(t, "yaml", output.Format)
	assert.Equal(t, "User Service", output.Title)
	assert.Equal(t, "Manages user accounts", output.Description)
	assert.Equal(t, 2, output.PathCount)
	assert.Equal(t, 3, output.OperationCount)
	assert.Equal(t, 2, output.SchemaCount)
	assert.Equal(t, []string{"/users", "/users/{userId}"}, output.Templates)
	assert.Empty(t, output.Warnings)
}

func TestParseSpecTool_Warnings(t *testing.T) {
	parseCache.reset()
	input := parseSpecInput{
		Spec: specInput{Content: `openapi: "3.0.0"
info:
  title: Dangling
  version: "1.0.0"
paths:
  /things:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Missing'
`},
	}
	_, output, err := handleParseSpec(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.NotEmpty(t, output.Warnings)
}

func TestParseSpecTool_InvalidSpec(t *testing.T) {
	parseCache.reset()
	input := parseSpecInput{
		Spec: specInput{Content: "not valid yaml: ["},
	}
	result, output, err := handleParseSpec(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Empty(t, output.Version)
}

func TestParseSpecTool_BothInputs(t *testing.T) {
	parseCache.reset()
	input := parseSpecInput{
		Spec: specInput{File: "spec.yaml", Content: testSpecYAML},
	}
	result, _, err := handleParseSpec(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
