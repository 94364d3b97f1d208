package assist

import (
	"encoding/json"
	"strings"
)

// Classify maps raw model output onto the response contract. It is pure and
// idempotent: the same raw text always yields the same envelope, and it never
// fails. The model is not under this system's control, so an output that
// matches neither shape degrades to a plain answer instead of blocking the
// user-visible response.
func Classify(raw string) Envelope {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		// Not a JSON object at all: the model ignored the contract and
		// emitted prose. Return it verbatim.
		return PlainAnswer(raw)
	}

	if solution, ok := solutionFrom(parsed); ok {
		return SolutionEnvelope(solution)
	}

	if text, ok := plainFrom(parsed); ok {
		return PlainAnswer(text)
	}

	// Parsed but matches neither shape: surface a stringified form rather
	// than failing the request.
	return PlainAnswer(stringify(parsed))
}

// solutionFrom checks for all seven solution fields with correct primitive
// types and a non-empty test-case list.
func solutionFrom(parsed map[string]json.RawMessage) (*Solution, bool) {
	solution := &Solution{}

	stringFields := map[string]*string{
		"problemStatement": &solution.ProblemStatement,
		"approach":         &solution.Approach,
		"codeSnippet":      &solution.CodeSnippet,
		"timeComplexity":   &solution.TimeComplexity,
		"spaceComplexity":  &solution.SpaceComplexity,
		"dryRun":           &solution.DryRun,
	}

	for key, target := range stringFields {
		value, ok := stringField(parsed, key)
		if !ok {
			return nil, false
		}
		*target = value
	}

	rawCases, ok := parsed["testCases"]
	if !ok {
		return nil, false
	}

	var elements []map[string]json.RawMessage
	if err := json.Unmarshal(rawCases, &elements); err != nil || len(elements) == 0 {
		return nil, false
	}

	for _, element := range elements {
		input, ok := stringField(element, "input")
		if !ok {
			return nil, false
		}
		output, ok := stringField(element, "output")
		if !ok {
			return nil, false
		}
		solution.TestCases = append(solution.TestCases, TestCase{Input: input, Output: output})
	}

	return solution, true
}

// plainFrom checks for the single free-text field of the plain-answer shape.
func plainFrom(parsed map[string]json.RawMessage) (string, bool) {
	return stringField(parsed, "response")
}

func stringField(object map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := object[key]
	if !ok {
		return "", false
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}

	return value, true
}

// stringify re-serializes a parsed object compactly. Map marshaling sorts
// keys, so the result is deterministic for a given input.
func stringify(parsed map[string]json.RawMessage) string {
	data, err := json.Marshal(parsed)
	if err != nil {
		return ""
	}

	return string(data)
}

// stripFences removes a surrounding markdown code fence, which some models
// add despite the contract. Only the parse input is cleaned; the raw text is
// persisted and returned untouched.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimPrefix(trimmed, "json")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}
