package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/arctechlabs/iris/framework"
	sfapi "github.com/arctechlabs/iris/internal/salesforce"
)

// NewDescribeTool fetches an object's field metadata so the model can learn
// valid API names before querying or writing.
func NewDescribeTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"describe_object",
		"Describes a Salesforce object: its field API names, labels, types, and whether each field is createable and updateable. Use before building queries or record payloads.",
		framework.ObjectSchema(map[string]framework.Property{
			"object": {Type: "string", Description: "API name of the object to describe, e.g. Opportunity."},
		}, "object"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			object, _ := args["object"].(string)
			var describe struct {
				Name   string `json:"name"`
				Label  string `json:"label"`
				Fields []struct {
					Name       string `json:"name"`
					Label      string `json:"label"`
					Type       string `json:"type"`
					Createable bool   `json:"createable"`
					Updateable bool   `json:"updateable"`
					Nillable   bool   `json:"nillable"`
				} `json:"fields"`
			}
			if err := client.Get(ctx, client.DataPath("sobjects/"+object+"/describe"), &describe); err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			fields := make([]map[string]interface{}, 0, len(describe.Fields))
			for _, f := range describe.Fields {
				fields = append(fields, map[string]interface{}{
					"name":       f.Name,
					"label":      f.Label,
					"type":       f.Type,
					"createable": f.Createable,
					"updateable": f.Updateable,
					"required":   !f.Nillable && f.Createable,
				})
			}
			return &framework.ToolResult{
				Success: true,
				Data: map[string]interface{}{
					"object": describe.Name,
					"label":  describe.Label,
					"fields": fields,
				},
			}, nil
		})
}

// NewLayoutTool returns the page layout sections for an object, mirroring
// what a user sees on the record page.
func NewLayoutTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"get_object_layout",
		"Fetches the page layout of a Salesforce object, listing the sections and fields shown on its record page.",
		framework.ObjectSchema(map[string]framework.Property{
			"object": {Type: "string", Description: "API name of the object."},
		}, "object"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			object, _ := args["object"].(string)
			var out map[string]interface{}
			if err := client.Get(ctx, client.DataPath("sobjects/"+object+"/describe/layouts"), &out); err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			return &framework.ToolResult{Success: true, Data: map[string]interface{}{"layouts": out}}, nil
		})
}

// NewObjectLookupTool resolves a human name ("deals") to object API names.
func NewObjectLookupTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"object_lookup",
		"Looks up Salesforce object API names matching a search term. Use when the user refers to data by a casual name, e.g. 'deals' for Opportunity.",
		framework.ObjectSchema(map[string]framework.Property{
			"term": {Type: "string", Description: "Word or phrase to match against object names and labels."},
		}, "term"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			term, _ := args["term"].(string)
			var listing struct {
				Sobjects []struct {
					Name       string `json:"name"`
					Label      string `json:"label"`
					Custom     bool   `json:"custom"`
					Queryable  bool   `json:"queryable"`
					KeyPrefix  string `json:"keyPrefix"`
					LabelPlural string `json:"labelPlural"`
				} `json:"sobjects"`
			}
			if err := client.Get(ctx, client.DataPath("sobjects"), &listing); err != nil {
				return &framework.ToolResult{Error: err.Error()}, nil
			}
			lowered := strings.ToLower(term)
			var matches []map[string]interface{}
			for _, obj := range listing.Sobjects {
				if !obj.Queryable {
					continue
				}
				if strings.Contains(strings.ToLower(obj.Name), lowered) ||
					strings.Contains(strings.ToLower(obj.Label), lowered) ||
					strings.Contains(strings.ToLower(obj.LabelPlural), lowered) {
					matches = append(matches, map[string]interface{}{
						"name":   obj.Name,
						"label":  obj.Label,
						"custom": obj.Custom,
					})
				}
			}
			if len(matches) == 0 {
				return &framework.ToolResult{Error: fmt.Sprintf("Query returned no results. No Salesforce object matches %q.", term)}, nil
			}
			return &framework.ToolResult{Success: true, Data: map[string]interface{}{"matches": matches}}, nil
		})
}

// NewRecordLinkTool builds a Lightning URL for a record so replies can link
// directly into the org.
func NewRecordLinkTool(client *sfapi.Client) framework.Tool {
	return framework.NewTool(
		"record_link",
		"Builds a direct Salesforce Lightning link to a record from its object API name and record ID.",
		framework.ObjectSchema(map[string]framework.Property{
			"object": {Type: "string", Description: "API name of the record's object."},
			"id":     {Type: "string", Description: "The 15 or 18 character record ID."},
		}, "object", "id"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			object, _ := args["object"].(string)
			id, _ := args["id"].(string)
			if len(id) != 15 && len(id) != 18 {
				return &framework.ToolResult{Error: "Invalid input: record id must be 15 or 18 characters."}, nil
			}
			return &framework.ToolResult{
				Success: true,
				Data: map[string]interface{}{
					"url": fmt.Sprintf("%s/lightning/r/%s/%s/view", client.InstanceURL(), object, id),
				},
			}, nil
		})
}
