package domain

// EventKind identifies an inbound trigger
type EventKind int

const (
	EventStart EventKind = iota
	EventCancel
	EventSelect
	EventText
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventCancel:
		return "cancel"
	case EventSelect:
		return "select"
	case EventText:
		return "text"
	}
	return "unknown"
}

// Event is one inbound trigger from the messaging transport
type Event struct {
	ID      string
	UserID  int64
	Kind    EventKind
	Payload string
}

// Choice is one selectable button
type Choice struct {
	Label string
	Value string
}
