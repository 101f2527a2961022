package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/arctechlabs/iris/framework"
	sfapi "github.com/arctechlabs/iris/internal/salesforce"
)

// NewQueryTool runs a SOQL query and returns every record, following
// pagination.
func NewQueryTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"soql_query",
		"Executes a SOQL query against the connected Salesforce org and returns all matching records. The query must follow SOQL syntax, e.g. SELECT Id, Name FROM Account LIMIT 10.",
		framework.ObjectSchema(map[string]framework.Property{
			"query": {Type: "string", Description: "The SOQL query to execute."},
		}, "query"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			query, _ := args["query"].(string)
			if strings.TrimSpace(query) == "" {
				return &framework.ToolResult{Error: `Invalid input: "query" must be a non-empty string following SOQL syntax.`}, nil
			}
			records, err := client.Query(ctx, query)
			if err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			if len(records) == 0 {
				return &framework.ToolResult{Error: "Query returned no results. Check object and field names for accuracy."}, nil
			}
			return &framework.ToolResult{
				Success: true,
				Data: map[string]interface{}{
					"message":      "Salesforce query executed successfully.",
					"totalRecords": len(records),
					"records":      records,
				},
			}, nil
		})
}

// NewDynamicQueryTool builds and runs a SOQL query from parts, for models
// that struggle to emit full SOQL in one string.
func NewDynamicQueryTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"dynamic_soql_query",
		"Builds and executes a SOQL query from an object name, a field list, and an optional WHERE clause and limit. Use this when assembling the query piecewise.",
		framework.ObjectSchema(map[string]framework.Property{
			"object": {Type: "string", Description: "API name of the Salesforce object, e.g. Account."},
			"fields": {Type: "array", Description: "Field API names to select.", Items: &framework.Property{Type: "string"}},
			"where":  {Type: "string", Description: "Optional WHERE clause without the WHERE keyword."},
			"limit":  {Type: "integer", Description: "Optional LIMIT; defaults to 200."},
		}, "object", "fields"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			object, _ := args["object"].(string)
			fields := stringSlice(args["fields"])
			if object == "" || len(fields) == 0 {
				return &framework.ToolResult{Error: "Invalid input: object and fields are required to build a query."}, nil
			}
			soql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(fields, ", "), object)
			if where, _ := args["where"].(string); strings.TrimSpace(where) != "" {
				soql += " WHERE " + where
			}
			limit := 200
			if raw, ok := args["limit"].(float64); ok && raw > 0 {
				limit = int(raw)
			}
			soql += fmt.Sprintf(" LIMIT %d", limit)

			records, err := client.Query(ctx, soql)
			if err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			return &framework.ToolResult{
				Success: true,
				Data: map[string]interface{}{
					"query":        soql,
					"totalRecords": len(records),
					"records":      records,
				},
			}, nil
		})
}

func stringSlice(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
