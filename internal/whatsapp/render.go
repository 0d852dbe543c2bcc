package whatsapp

import (
	"errors"
	"fmt"

	"github.com/glowdesk/salon-platform/internal/booking"
)

// ErrInvalidPromptShape reports a prompt that exceeds the platform's
// interactive limits.
var ErrInvalidPromptShape = errors.New("whatsapp: prompt exceeds platform limits")

// Renderer turns router prompts into Cloud API payloads. In strict mode
// an oversized prompt is an error so tests and staging catch it; in
// lenient mode it is truncated to the platform caps so production keeps
// answering.
type Renderer struct {
	strict bool
}

func NewRenderer(strict bool) *Renderer {
	return &Renderer{strict: strict}
}

// Render maps a prompt to the outbound payload addressed to the sender.
func (r *Renderer) Render(to string, prompt booking.Prompt) (*OutboundPayload, error) {
	switch p := prompt.(type) {
	case booking.TextPrompt:
		return r.renderText(to, p), nil
	case booking.ButtonPrompt:
		return r.renderButtons(to, p)
	case booking.ListPrompt:
		return r.renderList(to, p)
	}
	return nil, fmt.Errorf("whatsapp: unsupported prompt type %T", prompt)
}

func (r *Renderer) renderText(to string, p booking.TextPrompt) *OutboundPayload {
	return &OutboundPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &OutboundText{Body: p.Body},
	}
}

func (r *Renderer) renderButtons(to string, p booking.ButtonPrompt) (*OutboundPayload, error) {
	buttons := p.Buttons
	if len(buttons) > booking.MaxButtons {
		if r.strict {
			return nil, fmt.Errorf("%w: %d buttons", ErrInvalidPromptShape, len(buttons))
		}
		buttons = buttons[:booking.MaxButtons]
	}
	if len(buttons) == 0 {
		return nil, fmt.Errorf("%w: no buttons", ErrInvalidPromptShape)
	}
	wire := make([]InteractiveButton, 0, len(buttons))
	for _, b := range buttons {
		wire = append(wire, InteractiveButton{
			Type:  "reply",
			Reply: ButtonReply{ID: b.ID, Title: b.Title},
		})
	}
	return &OutboundPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &OutboundInteractive{
			Type:   "button",
			Header: textHeader(p.Header),
			Body:   InteractiveBody{Text: p.Body},
			Footer: footer(p.Footer),
			Action: InteractiveAction{Buttons: wire},
		},
	}, nil
}

func (r *Renderer) renderList(to string, p booking.ListPrompt) (*OutboundPayload, error) {
	if len(p.Sections) == 0 {
		return nil, fmt.Errorf("%w: no sections", ErrInvalidPromptShape)
	}
	sections := make([]ActionSection, 0, len(p.Sections))
	for _, sec := range p.Sections {
		rows := sec.Rows
		if len(rows) > booking.MaxRowsPerSection {
			if r.strict {
				return nil, fmt.Errorf("%w: %d rows in section %q", ErrInvalidPromptShape, len(rows), sec.Title)
			}
			rows = rows[:booking.MaxRowsPerSection]
		}
		wireRows := make([]ActionRow, 0, len(rows))
		for _, row := range rows {
			wireRows = append(wireRows, ActionRow{ID: row.ID, Title: row.Title, Description: row.Description})
		}
		sections = append(sections, ActionSection{Title: sec.Title, Rows: wireRows})
	}
	return &OutboundPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &OutboundInteractive{
			Type:   "list",
			Header: textHeader(p.Header),
			Body:   InteractiveBody{Text: p.Body},
			Footer: footer(p.Footer),
			Action: InteractiveAction{Button: p.ButtonLabel, Sections: sections},
		},
	}, nil
}

func textHeader(text string) *InteractiveHeader {
	if text == "" {
		return nil
	}
	return &InteractiveHeader{Type: "text", Text: text}
}

func footer(text string) *InteractiveFooter {
	if text == "" {
		return nil
	}
	return &InteractiveFooter{Text: text}
}
