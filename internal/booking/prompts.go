package booking

// Platform-imposed cardinality limits on interactive prompts.
const (
	MaxButtons        = 3
	MaxRowsPerSection = 10
)

// Prompt is one outbound reply decided by the router: plain text, a button
// set, or a selectable list.
type Prompt interface {
	isPrompt()
}

// TextPrompt is a plain text reply.
type TextPrompt struct {
	Body string
}

// Button is one tappable option on a ButtonPrompt.
type Button struct {
	ID    string
	Title string
}

// ButtonPrompt carries at most MaxButtons buttons.
type ButtonPrompt struct {
	Header  string
	Body    string
	Footer  string
	Buttons []Button
}

// ListRow is one selectable row in a ListPrompt section.
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// ListSection groups rows under a title; at most MaxRowsPerSection rows.
type ListSection struct {
	Title string
	Rows  []ListRow
}

// ListPrompt is an interactive list message.
type ListPrompt struct {
	Header      string
	Body        string
	ButtonLabel string
	Footer      string
	Sections    []ListSection
}

func (TextPrompt) isPrompt()   {}
func (ButtonPrompt) isPrompt() {}
func (ListPrompt) isPrompt()   {}
