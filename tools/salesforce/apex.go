package salesforce

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/arctechlabs/iris/framework"
	sfapi "github.com/arctechlabs/iris/internal/salesforce"
)

// NewApexTool runs anonymous Apex through the Tooling API. The executor
// surfaces compile and runtime problems as tool errors so the recovery loop
// can steer the model toward a fix.
func NewApexTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"execute_apex",
		"Executes an anonymous Apex script in the connected org. Only use for operations the other tools cannot express, and explain the script to the user first.",
		framework.ObjectSchema(map[string]framework.Property{
			"script": {Type: "string", Description: "The Apex code to execute anonymously."},
		}, "script"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			script, _ := args["script"].(string)
			if strings.TrimSpace(script) == "" {
				return &framework.ToolResult{Error: "Invalid input: script must be a non-empty Apex snippet."}, nil
			}
			out, err := client.ToolingExecute(ctx, script)
			if err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			if compiled, ok := out["compiled"].(bool); ok && !compiled {
				return &framework.ToolResult{Error: fmt.Sprintf("Salesforce API Error: Apex did not compile: %v", out["compileProblem"])}, nil
			}
			if success, ok := out["success"].(bool); ok && !success {
				return &framework.ToolResult{Error: fmt.Sprintf("Salesforce API Error: Apex failed: %v", out["exceptionMessage"])}, nil
			}
			return &framework.ToolResult{Success: true, Data: map[string]interface{}{"result": out}}, nil
		})
}

// NewMetadataTool reads entity metadata through the Tooling API.
func NewMetadataTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"fetch_metadata",
		"Fetches org metadata about an object through the Tooling API: sharing model, custom flags, and related entity definitions.",
		framework.ObjectSchema(map[string]framework.Property{
			"object": {Type: "string", Description: "API name of the object to inspect."},
		}, "object"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			object, _ := args["object"].(string)
			soql := fmt.Sprintf(
				"SELECT QualifiedApiName, Label, IsCustomizable, KeyPrefix FROM EntityDefinition WHERE QualifiedApiName = '%s'",
				strings.ReplaceAll(object, "'", ""))
			var out sfapi.QueryResult
			path := client.DataPath("tooling/query") + "?q=" + url.QueryEscape(soql)
			if err := client.Get(ctx, path, &out); err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			if len(out.Records) == 0 {
				return &framework.ToolResult{Error: fmt.Sprintf("Query returned no results. No entity definition for %q.", object)}, nil
			}
			return &framework.ToolResult{Success: true, Data: map[string]interface{}{"metadata": out.Records[0]}}, nil
		})
}

// NewBulkJobTool submits a Bulk API 2.0 ingest job.
func NewBulkJobTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"bulk_job",
		"Creates a Bulk API ingest job for high-volume insert, update, or delete operations on one object. Returns the job id to report back to the user.",
		framework.ObjectSchema(map[string]framework.Property{
			"object":    {Type: "string", Description: "API name of the target object."},
			"operation": {Type: "string", Description: "Bulk operation to perform.", Enum: []string{"insert", "update", "delete", "upsert"}},
		}, "object", "operation"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			object, _ := args["object"].(string)
			operation, _ := args["operation"].(string)
			var out struct {
				ID    string `json:"id"`
				State string `json:"state"`
			}
			body := map[string]interface{}{
				"object":      object,
				"operation":   operation,
				"contentType": "CSV",
			}
			if err := client.Post(ctx, client.DataPath("jobs/ingest"), body, &out); err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			return &framework.ToolResult{
				Success: true,
				Data: map[string]interface{}{
					"message": fmt.Sprintf("Bulk %s job %s created for %s; upload data to complete it.", operation, out.ID, object),
					"jobId":   out.ID,
					"state":   out.State,
				},
			}, nil
		})
}
