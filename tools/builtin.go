package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// DatetimeTool answers "what time/date is it" without a model round trip
// through search; it's also what the fast-path router bypasses entirely
// for the common phrasing.
type DatetimeTool struct {
	Now func() time.Time
}

func (t DatetimeTool) Name() string        { return "get_current_datetime" }
func (t DatetimeTool) Description() string { return "Returns the current date and time in UTC." }
func (t DatetimeTool) ParametersSchema() *jsonschema.Schema { return NoArgsSchema() }

func (t DatetimeTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	now := t.Now
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format("Monday, January 2, 2006 15:04 MST"), nil
}

// CalendarService is the external collaborator a caller supplies to back
// CheckCalendarTool; persistence and scheduling are out of scope for the
// core itself.
type CalendarService interface {
	UpcomingEvents(ctx context.Context, window string) (string, error)
}

type checkCalendarArgs struct {
	Window string `json:"window,omitempty" jsonschema_description:"Time window to check, e.g. 'today', 'this week'."`
}

// CheckCalendarTool reports upcoming events via an injected CalendarService,
// answering "not configured" when none is wired.
type CheckCalendarTool struct {
	Service CalendarService
}

func (t CheckCalendarTool) Name() string        { return "check_calendar" }
func (t CheckCalendarTool) Description() string { return "Looks up upcoming calendar events." }
func (t CheckCalendarTool) ParametersSchema() *jsonschema.Schema {
	return SchemaOf(&checkCalendarArgs{})
}

func (t CheckCalendarTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if t.Service == nil {
		return "calendar is not configured", nil
	}
	window, _ := args["window"].(string)
	if window == "" {
		window = "today"
	}
	return t.Service.UpcomingEvents(ctx, window)
}

// NotesService is the external collaborator a caller supplies to back
// SearchNotesTool.
type NotesService interface {
	Search(ctx context.Context, query string) (string, error)
}

type searchNotesArgs struct {
	Query string `json:"query" jsonschema_description:"Text to search for in the user's notes."`
}

// SearchNotesTool searches user notes via an injected NotesService,
// answering "not configured" when none is wired.
type SearchNotesTool struct {
	Service NotesService
}

func (t SearchNotesTool) Name() string        { return "search_notes" }
func (t SearchNotesTool) Description() string { return "Searches the user's saved notes." }
func (t SearchNotesTool) ParametersSchema() *jsonschema.Schema {
	return SchemaOf(&searchNotesArgs{})
}

func (t SearchNotesTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if t.Service == nil {
		return "notes are not configured", nil
	}
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("search_notes requires a query")
	}
	return t.Service.Search(ctx, query)
}
