package assist_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/quillardco/sensei/pkg/assist"
	"github.com/quillardco/sensei/pkg/eventstream"
	"github.com/quillardco/sensei/pkg/llm"
	"github.com/quillardco/sensei/pkg/storage"
	"github.com/quillardco/sensei/pkg/storage/inmemory"
)

type mockCompleter struct {
	output      string
	err         error
	calls       int
	lastInput   string
	lastHistory []llm.ContextPair
}

func (m *mockCompleter) Complete(_ context.Context, input string, history []llm.ContextPair) (string, error) {
	m.calls++
	m.lastInput = input
	m.lastHistory = history
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

type mockDriver struct {
	fetchErr  error
	appendErr error
	recent    []*storage.Turn
	appended  []*storage.Turn
}

func (m *mockDriver) FetchRecent(_ context.Context, _, _ string, _ int) ([]*storage.Turn, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.recent, nil
}

func (m *mockDriver) Append(_ context.Context, turn *storage.Turn) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, turn)
	return nil
}

func (m *mockDriver) Close() error { return nil }

type mockPublisher struct {
	err    error
	events []*eventstream.TurnPersistedEvent
}

func (m *mockPublisher) PublishTurn(_ context.Context, event *eventstream.TurnPersistedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

var _ = Describe("Service.Assist", func() {
	var (
		ctx       context.Context
		driver    *mockDriver
		completer *mockCompleter
		req       assist.Request
	)

	newService := func(opts ...assist.Option) *assist.Service {
		return assist.NewService(driver, completer, zap.NewNop(), opts...)
	}

	BeforeEach(func() {
		ctx = context.Background()
		driver = &mockDriver{}
		completer = &mockCompleter{output: `{"response": "an answer"}`}
		req = assist.Request{UserID: "u1", SessionID: "s1", Input: "a question"}
	})

	Context("with an invalid request", func() {
		It("returns a ValidationError and never touches the collaborators", func() {
			_, err := newService().Assist(ctx, assist.Request{})

			var validation assist.ValidationError
			Expect(errors.As(err, &validation)).To(BeTrue())
			Expect(validation.Fields).To(HaveLen(3))
			Expect(completer.calls).To(BeZero())
			Expect(driver.appended).To(BeEmpty())
		})
	})

	Context("with no prior history", func() {
		It("invokes the model with empty context", func() {
			envelope, err := newService().Assist(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(envelope.Type).To(Equal(assist.TypePlainAnswer))
			Expect(completer.lastHistory).To(BeEmpty())
			Expect(completer.lastInput).To(Equal("a question"))
		})

		It("persists exactly one turn with the raw output", func() {
			_, err := newService().Assist(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.appended).To(HaveLen(1))

			turn := driver.appended[0]
			Expect(turn.ID).NotTo(BeEmpty())
			Expect(turn.UserID).To(Equal("u1"))
			Expect(turn.SessionID).To(Equal("s1"))
			Expect(turn.UserInput).To(Equal("a question"))
			Expect(turn.AssistantRaw).To(Equal(`{"response": "an answer"}`))
		})
	})

	Context("with prior history", func() {
		BeforeEach(func() {
			driver.recent = newestFirst(
				[2]string{"q2", "a2"},
				[2]string{"q1", "a1"},
			)
		})

		It("passes the pairs oldest first", func() {
			_, err := newService().Assist(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(completer.lastHistory).To(Equal([]llm.ContextPair{
				{User: "q1", Assistant: "a1"},
				{User: "q2", Assistant: "a2"},
			}))
		})
	})

	Context("when the history read fails", func() {
		BeforeEach(func() {
			driver.fetchErr = errors.New("connection refused")
		})

		It("fails with a store unavailable error and never calls the model", func() {
			_, err := newService().Assist(ctx, req)

			var unavailable storage.UnavailableError
			Expect(errors.As(err, &unavailable)).To(BeTrue())
			Expect(completer.calls).To(BeZero())
		})

		It("preserves a driver-produced unavailable error", func() {
			driver.fetchErr = storage.UnavailableError{Op: "query", Err: errors.New("timeout")}

			_, err := newService().Assist(ctx, req)

			var unavailable storage.UnavailableError
			Expect(errors.As(err, &unavailable)).To(BeTrue())
			Expect(unavailable.Op).To(Equal("query"))
		})
	})

	Context("when the model call fails", func() {
		BeforeEach(func() {
			completer.err = errors.New("dial tcp: connection refused")
		})

		It("fails with an upstream error and persists nothing", func() {
			_, err := newService().Assist(ctx, req)

			var upstream assist.UpstreamError
			Expect(errors.As(err, &upstream)).To(BeTrue())
			Expect(driver.appended).To(BeEmpty())
		})
	})

	Context("when the turn write fails", func() {
		BeforeEach(func() {
			driver.appendErr = errors.New("disk full")
		})

		It("still returns the classified response", func() {
			envelope, err := newService().Assist(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(envelope.Type).To(Equal(assist.TypePlainAnswer))
			Expect(envelope.Text).To(Equal("an answer"))
		})
	})

	Context("when the model returns a structured solution", func() {
		BeforeEach(func() {
			completer.output = solutionJSON
		})

		It("returns the solution envelope but persists the raw text", func() {
			envelope, err := newService().Assist(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(envelope.Type).To(Equal(assist.TypeSolution))
			Expect(driver.appended).To(HaveLen(1))
			Expect(driver.appended[0].AssistantRaw).To(Equal(solutionJSON))
		})
	})

	Context("with a publisher attached", func() {
		var publisher *mockPublisher

		BeforeEach(func() {
			publisher = &mockPublisher{}
		})

		It("emits a turn event after a successful append", func() {
			_, err := newService(assist.WithPublisher(publisher)).Assist(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.events).To(HaveLen(1))

			event := publisher.events[0]
			Expect(event.EventType).To(Equal(eventstream.EventTypeTurnPersisted))
			Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
			Expect(event.Classification).To(Equal(assist.TypePlainAnswer))
			Expect(event.Turn.UserInput).To(Equal("a question"))
		})

		It("does not publish when the append fails", func() {
			driver.appendErr = errors.New("disk full")

			_, err := newService(assist.WithPublisher(publisher)).Assist(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.events).To(BeEmpty())
		})

		It("ignores publish failures", func() {
			publisher.err = errors.New("broker down")

			envelope, err := newService(assist.WithPublisher(publisher)).Assist(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(envelope.Text).To(Equal("an answer"))
		})
	})

	Context("against the in-memory store", func() {
		It("accumulates turns across calls and windows the context", func() {
			store := inmemory.NewDriver()
			service := assist.NewService(store, completer, zap.NewNop(), assist.WithWindow(2))

			for _, input := range []string{"one", "two", "three"} {
				r := req
				r.Input = input
				_, err := service.Assist(ctx, r)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(store.Count()).To(Equal(3))
			Expect(completer.lastHistory).To(HaveLen(2))
			Expect(completer.lastHistory[0].User).To(Equal("one"))
			Expect(completer.lastHistory[1].User).To(Equal("two"))
		})
	})
})
