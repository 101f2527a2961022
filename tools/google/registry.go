package google

import (
	"github.com/arctechlabs/iris/framework"
	gapi "github.com/arctechlabs/iris/internal/google"
)

// AllTools returns the Workspace toolset in a stable order.
func AllTools(svcs *gapi.Services) []framework.Tool {
	return []framework.Tool{
		NewListEventsTool(svcs),
		NewCreateEventTool(svcs),
		NewListFilesTool(svcs),
		NewCreateDocTool(svcs),
	}
}
