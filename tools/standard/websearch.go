package standard

import (
	"context"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/arctechlabs/iris/framework"
)

// NewWebSearchTool queries Google Programmable Search. apiKey and engineID
// come from the Custom Search console.
func NewWebSearchTool(apiKey, engineID string) framework.Tool {
	return framework.NewTool(
		"web_search",
		"Searches the web and returns the top results with titles, links and snippets.",
		framework.ObjectSchema(map[string]framework.Property{
			"query": {Type: "string", Description: "Search query."},
		}, "query"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			query, _ := args["query"].(string)
			svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
			if err != nil {
				return &framework.ToolResult{Error: "Web search error: " + err.Error()}, nil
			}
			resp, err := svc.Cse.List().Cx(engineID).Q(query).Num(5).Context(ctx).Do()
			if err != nil {
				return &framework.ToolResult{Error: "Web search error: " + err.Error()}, nil
			}
			results := make([]map[string]interface{}, 0, len(resp.Items))
			for _, item := range resp.Items {
				results = append(results, map[string]interface{}{
					"title":   item.Title,
					"link":    item.Link,
					"snippet": item.Snippet,
				})
			}
			if len(results) == 0 {
				return &framework.ToolResult{Success: true, Data: map[string]interface{}{"message": "No results found."}}, nil
			}
			return &framework.ToolResult{Success: true, Data: map[string]interface{}{"results": results}}, nil
		})
}
