package google

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/arctechlabs/iris/framework"
	gapi "github.com/arctechlabs/iris/internal/google"
)

// NewCreateEventTool schedules a calendar event on the user's primary
// calendar.
func NewCreateEventTool(svcs *gapi.Services) framework.Tool {
	return framework.NewTool(
		"create_calendar_event",
		"Creates an event on the user's primary Google Calendar. Times must be RFC 3339, e.g. 2026-09-01T15:00:00-05:00.",
		framework.ObjectSchema(map[string]framework.Property{
			"summary":     {Type: "string", Description: "Event title."},
			"description": {Type: "string", Description: "Optional event details."},
			"start":       {Type: "string", Description: "Start time in RFC 3339."},
			"end":         {Type: "string", Description: "End time in RFC 3339."},
			"attendees":   {Type: "array", Description: "Optional attendee email addresses.", Items: &framework.Property{Type: "string"}},
		}, "summary", "start", "end"),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			summary, _ := args["summary"].(string)
			start, _ := args["start"].(string)
			end, _ := args["end"].(string)
			if _, err := time.Parse(time.RFC3339, start); err != nil {
				return &framework.ToolResult{Error: fmt.Sprintf("Invalid input: start time %q is not RFC 3339.", start)}, nil
			}
			if _, err := time.Parse(time.RFC3339, end); err != nil {
				return &framework.ToolResult{Error: fmt.Sprintf("Invalid input: end time %q is not RFC 3339.", end)}, nil
			}
			event := &calendar.Event{
				Summary:     summary,
				Description: stringArg(args, "description"),
				Start:       &calendar.EventDateTime{DateTime: start},
				End:         &calendar.EventDateTime{DateTime: end},
			}
			if emails, ok := args["attendees"].([]interface{}); ok {
				for _, raw := range emails {
					if email, ok := raw.(string); ok && email != "" {
						event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
					}
				}
			}
			created, err := svcs.Calendar.Events.Insert("primary", event).Context(ctx).Do()
			if err != nil {
				return &framework.ToolResult{Error: "Google Calendar error: " + err.Error()}, nil
			}
			return &framework.ToolResult{
				Success: true,
				Data: map[string]interface{}{
					"message": fmt.Sprintf("Created event %q.", created.Summary),
					"id":      created.Id,
					"link":    created.HtmlLink,
				},
			}, nil
		})
}

// NewListEventsTool lists upcoming calendar events.
func NewListEventsTool(svcs *gapi.Services) framework.Tool {
	return framework.NewTool(
		"list_calendar_events",
		"Lists the user's upcoming Google Calendar events, soonest first.",
		framework.ObjectSchema(map[string]framework.Property{
			"maxResults": {Type: "integer", Description: "Maximum events to return; defaults to 10."},
		}),
		func(ctx context.Context, args map[string]interface{}) (*framework.ToolResult, error) {
			max := int64(10)
			if raw, ok := args["maxResults"].(float64); ok && raw > 0 {
				max = int64(raw)
			}
			events, err := svcs.Calendar.Events.List("primary").
				TimeMin(time.Now().Format(time.RFC3339)).
				SingleEvents(true).
				OrderBy("startTime").
				MaxResults(max).
				Context(ctx).Do()
			if err != nil {
				return &framework.ToolResult{Error: "Google Calendar error: " + err.Error()}, nil
			}
			items := make([]map[string]interface{}, 0, len(events.Items))
			for _, event := range events.Items {
				start := event.Start.DateTime
				if start == "" {
					start = event.Start.Date
				}
				items = append(items, map[string]interface{}{
					"summary": event.Summary,
					"start":   start,
					"link":    event.HtmlLink,
				})
			}
			return &framework.ToolResult{Success: true, Data: map[string]interface{}{"events": items}}, nil
		})
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}
