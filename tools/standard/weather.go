package standard

import (
	"context"
	"fmt"

	"github.com/arctechlabs/iris/framework"
)

// NewWeatherTool reports placeholder weather until a provider is wired in.
// TODO: replace the canned response with a real forecast API call.
func NewWeatherTool() framework.Tool {
	return framework.NewTool(
		"get_weather",
		"Returns the current weather for a location.",
		framework.ObjectSchema(map[string]framework.Property{
			"location": {Type: "string", Description: "City or place name, e.g. Austin, TX."},
		}, "location"),
		func(_ context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			location, _ := args["location"].(string)
			return &framework.ToolResult{
				Success: true,
				Data: map[string]interface{}{
					"location":  location,
					"condition": "sunny",
					"forecast":  fmt.Sprintf("The weather in %s is sunny and 75°F.", location),
				},
			}, nil
		})
}
