package assist_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillardco/sensei/pkg/assist"
)

var _ = Describe("Request validation", func() {
	It("accepts a fully populated request", func() {
		req := assist.Request{UserID: "u1", SessionID: "s1", Input: "how do I reverse a list?"}
		Expect(req.Validate()).To(Succeed())
	})

	It("reports a single missing field", func() {
		req := assist.Request{UserID: "u1", SessionID: "s1"}
		err := req.Validate()

		var validation assist.ValidationError
		Expect(err).To(BeAssignableToTypeOf(validation))
		Expect(err.(assist.ValidationError).Fields).To(Equal([]string{"input"}))
	})

	It("enumerates every violated field at once", func() {
		err := assist.Request{}.Validate()

		var validation assist.ValidationError
		Expect(err).To(BeAssignableToTypeOf(validation))
		Expect(err.(assist.ValidationError).Fields).To(Equal([]string{"userId", "sessionId", "input"}))
	})

	It("reports two missing fields together", func() {
		err := assist.Request{SessionID: "s1"}.Validate()
		Expect(err.(assist.ValidationError).Fields).To(ConsistOf("userId", "input"))
	})

	It("names fields in their JSON form", func() {
		err := assist.Request{Input: "x"}.Validate()
		Expect(err.Error()).To(ContainSubstring("userId"))
		Expect(err.Error()).To(ContainSubstring("sessionId"))
	})
})
