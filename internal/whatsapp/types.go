package whatsapp

import (
	"github.com/glowdesk/salon-platform/internal/booking"
)

// Webhook envelope for the Cloud API. Only the message fields the router
// consumes are mapped; everything else is ignored on the floor.

type WebhookEnvelope struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         WebhookMetadata  `json:"metadata"`
	Contacts         []WebhookContact `json:"contacts"`
	Messages         []WebhookMessage `json:"messages"`
	Statuses         []WebhookStatus  `json:"statuses"`
}

type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type WebhookContact struct {
	WAID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type WebhookMessage struct {
	ID          string       `json:"id"`
	From        string       `json:"from"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *TextBody    `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

type TextBody struct {
	Body string `json:"body"`
}

type Interactive struct {
	Type        string `json:"type"`
	ButtonReply *Reply `json:"button_reply,omitempty"`
	ListReply   *Reply `json:"list_reply,omitempty"`
}

type Reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WebhookStatus is a delivery receipt. Parsed so the payload decodes
// cleanly, never acted on.
type WebhookStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// InboundMessages flattens a webhook envelope into routable events plus
// their provider message ids. Statuses and unsupported message types
// produce nothing.
func InboundMessages(env WebhookEnvelope) []Inbound {
	var out []Inbound
	for _, entry := range env.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			names := profileNames(change.Value.Contacts)
			for _, msg := range change.Value.Messages {
				ev := toEvent(msg, names[msg.From])
				if ev == nil {
					continue
				}
				out = append(out, Inbound{
					MessageID:     msg.ID,
					PhoneNumberID: change.Value.Metadata.PhoneNumberID,
					Event:         ev,
				})
			}
		}
	}
	return out
}

// Inbound pairs a routable event with its webhook identity.
type Inbound struct {
	MessageID     string
	PhoneNumberID string
	Event         booking.InboundEvent
}

func profileNames(contacts []WebhookContact) map[string]string {
	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		if c.Profile.Name != "" {
			names[c.WAID] = c.Profile.Name
		}
	}
	return names
}

func toEvent(msg WebhookMessage, profileName string) booking.InboundEvent {
	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return nil
		}
		return booking.TextMessage{From: msg.From, Body: msg.Text.Body, ProfileName: profileName}
	case "interactive":
		if msg.Interactive == nil {
			return nil
		}
		switch {
		case msg.Interactive.ButtonReply != nil:
			return booking.ButtonReply{From: msg.From, ButtonID: msg.Interactive.ButtonReply.ID, ProfileName: profileName}
		case msg.Interactive.ListReply != nil:
			return booking.ListReply{From: msg.From, ListID: msg.Interactive.ListReply.ID, ProfileName: profileName}
		}
	}
	return nil
}
