package google

import (
	"context"
	"fmt"

	"github.com/arctechlabs/iris/framework"
	gapi "github.com/arctechlabs/iris/internal/google"
)

// NewListFilesTool searches the user's Drive by name.
func NewListFilesTool(svcs *gapi.Services) framework.Tool {
	return framework.NewTool(
		"list_drive_files",
		"Searches the user's Google Drive for files whose name contains the given text.",
		framework.ObjectSchema(map[string]framework.Property{
			"query":      {Type: "string", Description: "Text to match against file names. Empty lists recent files."},
			"maxResults": {Type: "integer", Description: "Maximum files to return; defaults to 10."},
		}),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			max := int64(10)
			if raw, ok := args["maxResults"].(float64); ok && raw > 0 {
				max = int64(raw)
			}
			call := svcs.Drive.Files.List().
				PageSize(max).
				OrderBy("modifiedTime desc").
				Fields("files(id, name, mimeType, webViewLink, modifiedTime)")
			if query, _ := args["query"].(string); query != "" {
				call = call.Q(fmt.Sprintf("name contains '%s' and trashed = false", escapeDriveQuery(query)))
			}
			list, err := call.Context(ctx).Do()
			if err != nil {
				return &framework.ToolResult{Error: "Google Drive error: " + err.Error()}, nil
			}
			files := make([]map[string]interface{}, 0, len(list.Files))
			for _, f := range list.Files {
				files = append(files, map[string]interface{}{
					"name":     f.Name,
					"mimeType": f.MimeType,
					"link":     f.WebViewLink,
					"modified": f.ModifiedTime,
				})
			}
			return &framework.ToolResult{Success: true, Data: map[string]interface{}{"files": files}}, nil
		})
}

// Drive query strings use single quotes; escape any embedded ones.
func escapeDriveQuery(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\'' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
