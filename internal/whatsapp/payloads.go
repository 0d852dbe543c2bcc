package whatsapp

// Outbound wire shapes for the Cloud API /messages endpoint.

type OutboundPayload struct {
	MessagingProduct string              `json:"messaging_product"`
	RecipientType    string              `json:"recipient_type"`
	To               string              `json:"to"`
	Type             string              `json:"type"`
	Text             *OutboundText       `json:"text,omitempty"`
	Interactive      *OutboundInteractive `json:"interactive,omitempty"`
}

type OutboundText struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type OutboundInteractive struct {
	Type   string             `json:"type"`
	Header *InteractiveHeader `json:"header,omitempty"`
	Body   InteractiveBody    `json:"body"`
	Footer *InteractiveFooter `json:"footer,omitempty"`
	Action InteractiveAction  `json:"action"`
}

type InteractiveHeader struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type InteractiveBody struct {
	Text string `json:"text"`
}

type InteractiveFooter struct {
	Text string `json:"text"`
}

type InteractiveAction struct {
	Button   string              `json:"button,omitempty"`
	Buttons  []InteractiveButton `json:"buttons,omitempty"`
	Sections []ActionSection     `json:"sections,omitempty"`
}

type InteractiveButton struct {
	Type  string      `json:"type"`
	Reply ButtonReply `json:"reply"`
}

type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ActionSection struct {
	Title string      `json:"title,omitempty"`
	Rows  []ActionRow `json:"rows"`
}

type ActionRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// SendResponse is the Cloud API acknowledgement for a send request.
type SendResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Messages         []struct {
		ID string `json:"id"`
	} `json:"messages"`
}
