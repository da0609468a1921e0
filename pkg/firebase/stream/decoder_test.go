package stream

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decode", func() {
	Context("with no event line", func() {
		It("reports no frame and no error", func() {
			ev, err := Decode(nil, []byte("data: {}\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ev).To(BeNil())
		})
	})

	Context("with a keep-alive frame", func() {
		It("emits a keep-alive event", func() {
			ev, err := Decode([]byte("event: keep-alive\n"), []byte("data: null\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Kind).To(Equal(KindKeepAlive))
			Expect(ev.Document).To(BeNil())
		})

		It("ignores the payload even when it is garbage", func() {
			ev, err := Decode([]byte("event: keep-alive\n"), []byte("!!not a frame!!"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Kind).To(Equal(KindKeepAlive))
		})
	})

	Context("with a put frame", func() {
		It("parses the document, preserving the path/data nesting", func() {
			ev, err := Decode([]byte("event: put\n"), []byte("data: {\"path\":\"/\",\"data\":{\"a\":1}}\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Kind).To(Equal(KindPut))
			Expect(ev.Document).To(HaveKeyWithValue("path", "/"))
			Expect(ev.Document).To(HaveKey("data"))

			data, ok := ev.Document["data"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(data).To(HaveKeyWithValue("a", float64(1)))
		})

		It("rejects an unparsable payload", func() {
			ev, err := Decode([]byte("event: put\n"), []byte("data: not-json\n"))
			Expect(err).To(HaveOccurred())
			Expect(ev).To(BeNil())
		})

		It("rejects a payload whose root is not an object", func() {
			ev, err := Decode([]byte("event: put\n"), []byte("data: [1,2,3]\n"))
			Expect(err).To(HaveOccurred())
			Expect(ev).To(BeNil())
		})

		It("rejects a null document", func() {
			ev, err := Decode([]byte("event: put\n"), []byte("data: null\n"))
			Expect(err).To(HaveOccurred())
			Expect(ev).To(BeNil())
		})

		It("rejects a payload with no key delimiter", func() {
			// No ':' means the extracted value is empty, which cannot parse.
			ev, err := Decode([]byte("event: put\n"), []byte("just bytes\n"))
			Expect(err).To(HaveOccurred())
			Expect(ev).To(BeNil())
		})
	})

	Context("with an unrecognized event", func() {
		It("emits an unknown event carrying the raw name", func() {
			ev, err := Decode([]byte("event: bogus\n"), []byte("data: {}\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Kind).To(Equal(KindUnknown))
			Expect(ev.RawName).To(Equal("bogus"))
		})

		It("matches the known event lines exactly, terminator included", func() {
			// Missing newline means the line never completed; a relaxed
			// prefix match would wrongly accept it.
			ev, err := Decode([]byte("event: put"), []byte("data: {}\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Kind).To(Equal(KindUnknown))
			Expect(ev.RawName).To(Equal("put"))
		})
	})
})

var _ = Describe("trimValue", func() {
	It("extracts the value after the first delimiter", func() {
		Expect(string(trimValue([]byte("data: v")))).To(Equal("v"))
	})

	It("trims surrounding whitespace", func() {
		Expect(string(trimValue([]byte("data:   {\"a\":1}  \n")))).To(Equal("{\"a\":1}"))
	})

	It("returns empty when no delimiter is present", func() {
		Expect(trimValue([]byte("no delimiter here"))).To(BeEmpty())
	})

	It("returns empty when the delimiter is the first byte", func() {
		Expect(trimValue([]byte(": comment"))).To(BeEmpty())
	})

	It("keeps later delimiters inside the value", func() {
		Expect(string(trimValue([]byte("data: {\"path\":\"/\"}")))).To(Equal("{\"path\":\"/\"}"))
	})
})
