package assist

// Request is the validated inbound payload for one assist call.
type Request struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Input     string `json:"input"`
}

// Validate checks all fields and reports every violation at once.
// Returns nil when the request is well formed.
func (r Request) Validate() error {
	var violated []string

	if r.UserID == "" {
		violated = append(violated, "userId")
	}
	if r.SessionID == "" {
		violated = append(violated, "sessionId")
	}
	if r.Input == "" {
		violated = append(violated, "input")
	}

	if len(violated) > 0 {
		return ValidationError{Fields: violated}
	}

	return nil
}
