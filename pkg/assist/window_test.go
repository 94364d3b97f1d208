package assist_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillardco/sensei/pkg/assist"
	"github.com/quillardco/sensei/pkg/llm"
	"github.com/quillardco/sensei/pkg/storage"
)

// newestFirst builds turns the way the store returns them, with ages given
// newest first.
func newestFirst(exchanges ...[2]string) []*storage.Turn {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	turns := make([]*storage.Turn, 0, len(exchanges))
	for i, ex := range exchanges {
		turns = append(turns, &storage.Turn{
			ID:           "t" + string(rune('0'+i)),
			UserID:       "u1",
			SessionID:    "s1",
			UserInput:    ex[0],
			AssistantRaw: ex[1],
			CreatedAt:    base.Add(-time.Duration(i) * time.Minute),
		})
	}
	return turns
}

var _ = Describe("PairHistory", func() {
	It("returns an empty slice for empty history", func() {
		Expect(assist.PairHistory(nil)).To(BeEmpty())
	})

	It("reverses newest-first turns into oldest-first pairs", func() {
		turns := newestFirst(
			[2]string{"third question", "third answer"},
			[2]string{"second question", "second answer"},
			[2]string{"first question", "first answer"},
		)

		pairs := assist.PairHistory(turns)
		Expect(pairs).To(Equal([]llm.ContextPair{
			{User: "first question", Assistant: "first answer"},
			{User: "second question", Assistant: "second answer"},
			{User: "third question", Assistant: "third answer"},
		}))
	})

	It("maps each turn to exactly one pair", func() {
		turns := newestFirst(
			[2]string{"q2", "a2"},
			[2]string{"q1", "a1"},
		)
		Expect(assist.PairHistory(turns)).To(HaveLen(2))
	})

	It("drops turns with an empty stored response", func() {
		turns := newestFirst(
			[2]string{"q3", "a3"},
			[2]string{"q2", ""},
			[2]string{"q1", "a1"},
		)

		pairs := assist.PairHistory(turns)
		Expect(pairs).To(Equal([]llm.ContextPair{
			{User: "q1", Assistant: "a1"},
			{User: "q3", Assistant: "a3"},
		}))
	})

	It("skips nil turns", func() {
		turns := newestFirst([2]string{"q1", "a1"})
		turns = append([]*storage.Turn{nil}, turns...)

		pairs := assist.PairHistory(turns)
		Expect(pairs).To(HaveLen(1))
	})
})
