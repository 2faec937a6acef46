package model

// Button is one inline keyboard button. Data is the callback token.
type Button struct {
	Text string
	Data string
}

// Keyboard is an inline keyboard, row by row.
type Keyboard [][]Button

// Update is one inbound event from the chat transport. Exactly one of
// Message and Callback is set.
type Update struct {
	TraceID  string
	Message  *TextMessage
	Callback *CallbackEvent
}

// TextMessage is an inbound chat message.
type TextMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Kind      MessageKind
}

// CallbackEvent is an inline button press.
type CallbackEvent struct {
	ID              string
	ChatID          int64
	OriginMessageID int
	// OriginHasPhoto is true when the message carrying the keyboard is a photo,
	// whose caption (not text) must be edited.
	OriginHasPhoto bool
	Data           string
}
