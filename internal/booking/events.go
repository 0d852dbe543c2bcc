package booking

// InboundEvent is one inbound chat interaction. Exactly one concrete
// variant exists per platform payload; anything else is discarded before
// it reaches the router.
type InboundEvent interface {
	// Sender returns the raw phone string the platform reported.
	Sender() string
	isInbound()
}

// TextMessage is a free-text message.
type TextMessage struct {
	From        string
	Body        string
	ProfileName string
}

// ButtonReply is a tap on an interactive button.
type ButtonReply struct {
	From        string
	ButtonID    string
	ProfileName string
}

// ListReply is a selection from an interactive list.
type ListReply struct {
	From        string
	ListID      string
	ProfileName string
}

func (e TextMessage) Sender() string { return e.From }
func (e ButtonReply) Sender() string { return e.From }
func (e ListReply) Sender() string   { return e.From }

func (TextMessage) isInbound() {}
func (ButtonReply) isInbound() {}
func (ListReply) isInbound()   {}
