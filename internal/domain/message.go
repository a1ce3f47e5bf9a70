package domain

import "time"

// Payload is the rendered content of the status message.
// It is transport agnostic; the chat adapter converts it to its own types.
type Payload struct {
	Title       string
	Description string
	Color       int
	ImageURL    string
	Fields      []Field
	Footer      *Footer
	Buttons     [][]Button // rows of link buttons
	Timestamp   time.Time
}

// Field is one name/value cell of the message.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Footer is the optional small print of the message.
type Footer struct {
	Text    string
	IconURL string
}

// Button is a link button rendered under the message.
type Button struct {
	Label string
	URL   string
}

// MessageRef identifies a message that was successfully fetched.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// PresenceStatus is the bot's own status indicator.
type PresenceStatus string

const (
	StatusOnline    PresenceStatus = "online"
	StatusIdle      PresenceStatus = "idle"
	StatusDND       PresenceStatus = "dnd"
	StatusInvisible PresenceStatus = "invisible"
)

// ActivityKind mirrors the activity verbs a chat client can display.
type ActivityKind string

const (
	ActivityPlaying   ActivityKind = "playing"
	ActivityStreaming ActivityKind = "streaming"
	ActivityListening ActivityKind = "listening"
	ActivityWatching  ActivityKind = "watching"
	ActivityCompeting ActivityKind = "competing"
)

// Presence is what the bot shows on its own profile.
type Presence struct {
	Text     string
	Activity ActivityKind
	Status   PresenceStatus
}
