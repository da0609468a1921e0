package firebase_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rediaas/firewatch/pkg/firebase"
)

var _ = Describe("Locator", func() {
	Context("joining host and path", func() {
		It("inserts the separator when the host lacks one", func() {
			l := firebase.NewLocator("https://demo.firebaseio.com", "users/42")
			Expect(l.String()).To(Equal("https://demo.firebaseio.com/users/42.json"))
		})

		It("keeps an existing separator", func() {
			l := firebase.NewLocator("https://demo.firebaseio.com/", "users/42")
			Expect(l.String()).To(Equal("https://demo.firebaseio.com/users/42.json"))
		})

		It("trims surrounding whitespace from both parts", func() {
			l := firebase.NewLocator("  https://demo.firebaseio.com  ", " users/42 ")
			Expect(l.String()).To(Equal("https://demo.firebaseio.com/users/42.json"))
		})

		It("accepts an empty path for whole-database access", func() {
			l := firebase.NewLocator("https://demo.firebaseio.com", "")
			Expect(l.String()).To(Equal("https://demo.firebaseio.com/.json"))
		})
	})

	Context("the document extension", func() {
		It("is not duplicated when already present", func() {
			l := firebase.NewLocator("https://demo.firebaseio.com", "users/42.json")
			Expect(l.String()).To(Equal("https://demo.firebaseio.com/users/42.json"))
		})

		It("is appended to a path that merely contains it", func() {
			l := firebase.NewLocator("https://demo.firebaseio.com", "users/.json/42")
			Expect(l.String()).To(Equal("https://demo.firebaseio.com/users/.json/42.json"))
		})

		It("is appended to a destination too short to carry it", func() {
			l := firebase.NewLocator("x", "")
			Expect(l.String()).To(Equal("x/.json"))
		})
	})

	Context("rendering queries", func() {
		It("prefixes a bare query with a question mark", func() {
			l := firebase.NewLocator("https://demo.firebaseio.com", "users")
			Expect(l.Render("shallow=true")).To(Equal("https://demo.firebaseio.com/users.json?shallow=true"))
		})

		It("leaves an already-prefixed query alone", func() {
			l := firebase.NewLocator("https://demo.firebaseio.com", "users")
			Expect(l.Render("?shallow=true")).To(Equal("https://demo.firebaseio.com/users.json?shallow=true"))
		})

		It("omits the separator entirely for an empty query", func() {
			l := firebase.NewLocator("https://demo.firebaseio.com", "users")
			Expect(l.Render("")).To(Equal("https://demo.firebaseio.com/users.json"))
		})
	})
})
