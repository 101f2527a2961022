package salesforce

import (
	"context"
	"fmt"

	"github.com/arctechlabs/iris/framework"
	sfapi "github.com/arctechlabs/iris/internal/salesforce"
)

// NewCreateRecordTool inserts one record.
func NewCreateRecordTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"create_record",
		"Creates a new Salesforce record. Provide the object API name and a map of field API names to values. Describe the object first if unsure which fields are required.",
		framework.ObjectSchema(map[string]framework.Property{
			"object": {Type: "string", Description: "API name of the object, e.g. Contact."},
			"fields": {Type: "object", Description: "Field API names mapped to values."},
		}, "object", "fields"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			object, _ := args["object"].(string)
			fields, _ := args["fields"].(map[string]interface{})
			if len(fields) == 0 {
				return &framework.ToolResult{Error: "Invalid input: fields must contain at least one field to set."}, nil
			}
			var out struct {
				ID      string `json:"id"`
				Success bool   `json:"success"`
			}
			if err := client.Post(ctx, client.DataPath("sobjects/"+object), fields, &out); err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			return &framework.ToolResult{
				Success: true,
				Data: map[string]interface{}{
					"message": fmt.Sprintf("Created %s record %s.", object, out.ID),
					"id":      out.ID,
				},
			}, nil
		})
}

// NewUpdateRecordTool patches fields on an existing record.
func NewUpdateRecordTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"update_record",
		"Updates fields on an existing Salesforce record identified by object API name and record ID.",
		framework.ObjectSchema(map[string]framework.Property{
			"object": {Type: "string", Description: "API name of the object."},
			"id":     {Type: "string", Description: "ID of the record to update."},
			"fields": {Type: "object", Description: "Field API names mapped to new values."},
		}, "object", "id", "fields"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			object, _ := args["object"].(string)
			id, _ := args["id"].(string)
			fields, _ := args["fields"].(map[string]interface{})
			if len(fields) == 0 {
				return &framework.ToolResult{Error: "Invalid input: fields must contain at least one field to change."}, nil
			}
			if err := client.Patch(ctx, client.DataPath("sobjects/"+object+"/"+id), fields, nil); err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			return &framework.ToolResult{
				Success: true,
				Data:    map[string]interface{}{"message": fmt.Sprintf("Updated %s record %s.", object, id)},
			}, nil
		})
}

// NewDeleteRecordTool removes a record.
func NewDeleteRecordTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"delete_record",
		"Deletes a Salesforce record by object API name and record ID. Confirm with the user before deleting anything.",
		framework.ObjectSchema(map[string]framework.Property{
			"object": {Type: "string", Description: "API name of the object."},
			"id":     {Type: "string", Description: "ID of the record to delete."},
		}, "object", "id"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			object, _ := args["object"].(string)
			id, _ := args["id"].(string)
			if err := client.Delete(ctx, client.DataPath("sobjects/"+object+"/"+id)); err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			return &framework.ToolResult{
				Success: true,
				Data:    map[string]interface{}{"message": fmt.Sprintf("Deleted %s record %s.", object, id)},
			}, nil
		})
}
