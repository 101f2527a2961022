package salesforce

import (
	"github.com/arctechlabs/iris/framework"
	sfapi "github.com/arctechlabs/iris/internal/salesforce"
)

// QueryTools returns the read-only tools, in the order they are presented to
// the model.
func QueryTools(client *sfapi.Client) []framework.Tool {
	return []framework.Tool{
		NewQueryTool(client),
		NewDynamicQueryTool(client),
		NewDescribeTool(client),
		NewLayoutTool(client),
		NewObjectLookupTool(client),
		NewRecordLinkTool(client),
	}
}

// ActionTools returns the tools that modify org data.
func ActionTools(client *sfapi.Client) []framework.Tool {
	return []framework.Tool{
		NewCreateRecordTool(client),
		NewUpdateRecordTool(client),
		NewDeleteRecordTool(client),
		NewApexTool(client),
		NewBulkJobTool(client),
		NewMetadataTool(client),
	}
}

// AllTools returns queries followed by actions.
func AllTools(client *sfapi.Client) []framework.Tool {
	return append(QueryTools(client), ActionTools(client)...)
}
