package assist

import (
	"github.com/quillardco/sensei/pkg/llm"
	"github.com/quillardco/sensei/pkg/storage"
)

// PairHistory transforms the store's newest-first turns into the
// chronologically ordered (oldest-first) context pairs the model consumes.
// Each turn maps 1:1 to one pair; no cross-turn merging occurs. Turns with an
// empty stored response are dropped so malformed pairs never reach the model
// context. The window size is fixed by the fetch; this step does not
// re-truncate.
func PairHistory(turns []*storage.Turn) []llm.ContextPair {
	pairs := make([]llm.ContextPair, 0, len(turns))

	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]
		if turn == nil || turn.AssistantRaw == "" {
			continue
		}

		pairs = append(pairs, llm.ContextPair{
			User:      turn.UserInput,
			Assistant: turn.AssistantRaw,
		})
	}

	return pairs
}
