// Package assist implements the conversation-aware response orchestrator:
// request validation, history windowing, response classification, and the
// assist flow that ties them to the store and LLM collaborators.
package assist

import (
	"encoding/json"
	"fmt"
)

// Envelope type tags, mirrored in the JSON "type" field.
const (
	TypeSolution    = "solution"
	TypePlainAnswer = "response"
)

// TestCase is one input/output example attached to a structured solution.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Solution is the structured shape of a coding answer. All seven fields are
// required by the response contract; TestCases should carry at least two
// entries but only non-emptiness is enforced.
type Solution struct {
	ProblemStatement string     `json:"problemStatement"`
	Approach         string     `json:"approach"`
	CodeSnippet      string     `json:"codeSnippet"`
	TimeComplexity   string     `json:"timeComplexity"`
	SpaceComplexity  string     `json:"spaceComplexity"`
	DryRun           string     `json:"dryRun"`
	TestCases        []TestCase `json:"testCases"`
}

// Envelope is the tagged union returned to the caller: either a structured
// Solution or a plain-text answer. It is constructed fresh per request and
// never persisted; the store keeps the raw model output instead.
type Envelope struct {
	Type     string
	Solution *Solution
	Text     string
}

// SolutionEnvelope wraps a structured solution.
func SolutionEnvelope(solution *Solution) Envelope {
	return Envelope{Type: TypeSolution, Solution: solution}
}

// PlainAnswer wraps free text.
func PlainAnswer(text string) Envelope {
	return Envelope{Type: TypePlainAnswer, Text: text}
}

type solutionWire struct {
	Type string    `json:"type"`
	Data *Solution `json:"data"`
}

type plainWire struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MarshalJSON renders the discriminated wire form:
// {"type":"solution","data":{...}} or {"type":"response","text":"..."}.
func (e Envelope) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case TypeSolution:
		return json.Marshal(solutionWire{Type: TypeSolution, Data: e.Solution})
	case TypePlainAnswer:
		return json.Marshal(plainWire{Type: TypePlainAnswer, Text: e.Text})
	default:
		return nil, fmt.Errorf("cannot marshal envelope with unknown type %q", e.Type)
	}
}

// UnmarshalJSON restores an Envelope from its wire form.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	switch tag.Type {
	case TypeSolution:
		var wire solutionWire
		if err := json.Unmarshal(data, &wire); err != nil {
			return err
		}
		*e = Envelope{Type: TypeSolution, Solution: wire.Data}
		return nil
	case TypePlainAnswer:
		var wire plainWire
		if err := json.Unmarshal(data, &wire); err != nil {
			return err
		}
		*e = Envelope{Type: TypePlainAnswer, Text: wire.Text}
		return nil
	default:
		return fmt.Errorf("cannot unmarshal envelope with unknown type %q", tag.Type)
	}
}
