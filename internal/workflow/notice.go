package workflow

// Level classifies a notice for rendering.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-visible message produced by a workflow.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// IsZero reports whether there is nothing to show.
func (n Notice) IsZero() bool {
	return n.Text == ""
}

// Failed reports whether the notice describes a failed request.
func (n Notice) Failed() bool {
	return n.Level == LevelError
}

func info(text string) Notice    { return Notice{Level: LevelInfo, Text: text} }
func success(text string) Notice { return Notice{Level: LevelSuccess, Text: text} }
func warning(text string) Notice { return Notice{Level: LevelWarning, Text: text} }
func failure(text string) Notice { return Notice{Level: LevelError, Text: text} }

const (
	msgAddEmpty      = "Please enter some text before adding."
	msgAddStored     = "Memory stored successfully! ID: %s"
	msgAddFailed     = "Failed to store memory. Please try again."
	msgSearchEmpty   = "Please enter a search query."
	msgNoResults     = "No matching memories found. Try a different query."
	msgSearchFailed  = "Search failed. Please check your connection."
	msgListFailed    = "Failed to fetch memories. Please check your connection."
	msgNothingStored = "No memories stored yet. Add some in the 'Add Memory' tab!"
	msgDeleteEmpty   = "Please provide the id of the memory to delete."
	msgDeleted       = "Memory deleted successfully!"
	msgDeleteFailed  = "Failed to delete memory."
	msgUnreachable   = "Cannot reach the memory service at %s."
)

// NothingStored is shown by the manage view when the listing is empty.
const NothingStored = msgNothingStored

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
