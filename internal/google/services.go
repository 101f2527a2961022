package google

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Services bundles the Google API clients the productivity tools depend on,
// all sharing one authorized token source.
type Services struct {
	Calendar *calendar.Service
	Drive    *drive.Service
	Docs     *docs.Service
}

// NewServices constructs the Calendar, Drive, and Docs clients for a
// connected account.
func NewServices(ctx context.Context, source oauth2.TokenSource) (*Services, error) {
	calendarSvc, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, err
	}
	driveSvc, err := drive.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, err
	}
	docsSvc, err := docs.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, err
	}
	return &Services{Calendar: calendarSvc, Drive: driveSvc, Docs: docsSvc}, nil
}

// Scopes are the OAuth scopes requested when a user connects Google.
var Scopes = []string{
	calendar.CalendarScope,
	drive.DriveScope,
	docs.DocumentsScope,
}
