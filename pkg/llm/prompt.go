package llm

// ResponseContract is the system prompt that pins the model to exactly one of
// two output shapes. The classifier downstream mirrors these shapes; keep the
// field names here and in pkg/assist in sync.
const ResponseContract = `You are a coding assistant. Reply with exactly one JSON object, using one of these two shapes.

For coding problems, reply with a structured solution:
{
  "problemStatement": "restatement of the problem",
  "approach": "explanation of the approach",
  "codeSnippet": "complete code example",
  "timeComplexity": "e.g. O(n)",
  "spaceComplexity": "e.g. O(1)",
  "dryRun": "worked example on a sample input",
  "testCases": [{"input": "...", "output": "..."}, {"input": "...", "output": "..."}]
}
Include at least two test cases.

For anything else (follow-up questions, clarifications, general discussion), reply with:
{
  "response": "your answer as plain text"
}

Do not wrap the JSON in markdown fences or add any text outside the object.`

// BuildMessages assembles the full message sequence for a completion call:
// the response contract, the windowed history oldest-first, then the current
// input.
func BuildMessages(input string, history []ContextPair) []Message {
	messages := make([]Message, 0, 2*len(history)+2)
	messages = append(messages, Message{Role: "system", Content: ResponseContract})

	for _, pair := range history {
		messages = append(messages,
			Message{Role: "user", Content: pair.User},
			Message{Role: "assistant", Content: pair.Assistant},
		)
	}

	return append(messages, Message{Role: "user", Content: input})
}
