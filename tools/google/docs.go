package google

import (
	"context"
	"fmt"

	"google.golang.org/api/docs/v1"

	"github.com/arctechlabs/iris/framework"
	gapi "github.com/arctechlabs/iris/internal/google"
)

// NewCreateDocTool creates a Google Doc and optionally seeds it with
// body text.
func NewCreateDocTool(svcs *gapi.Services) framework.Tool {
	return framework.NewTool(
		"create_google_doc",
		"Creates a new Google Doc with the given title and optional body text, and returns a link to it.",
		framework.ObjectSchema(map[string]framework.Property{
			"title":   {Type: "string", Description: "Document title."},
			"content": {Type: "string", Description: "Optional initial body text."},
		}, "title"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			title, _ := args["title"].(string)
			doc, err := svcs.Docs.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
			if err != nil {
				return &framework.ToolResult{Error: "Google Docs error: " + err.Error()}, nil
			}
			if content, _ := args["content"].(string); content != "" {
				_, err = svcs.Docs.Documents.BatchUpdate(doc.DocumentId, &docs.BatchUpdateDocumentRequest{
					Requests: []*docs.Request{{
						InsertText: &docs.InsertTextRequest{
							Location: &docs.Location{Index: 1},
							Text:     content,
						},
					}},
				}).Context(ctx).Do()
				if err != nil {
					return &framework.ToolResult{Error: "Google Docs error: created document but failed to write content: " + err.Error()}, nil
				}
			}
			return &framework.ToolResult{
				Success: true,
				Data: map[string]interface{}{
					"message": fmt.Sprintf("Created document %q.", doc.Title),
					"id":      doc.DocumentId,
					"link":    "https://docs.google.com/document/d/" + doc.DocumentId + "/edit",
				},
			}, nil
		})
}
