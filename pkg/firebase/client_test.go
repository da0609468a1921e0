package firebase_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rediaas/firewatch/pkg/firebase"
	"github.com/rediaas/firewatch/pkg/firebase/stream"
)

// capture records the single most recent request a test server saw.
type capture struct {
	mu     sync.Mutex
	method string
	path   string
	query  string
	body   string
}

func (c *capture) handler(respond string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.method = r.Method
		c.path = r.URL.Path
		c.query = r.URL.RawQuery
		c.body = string(body)
		c.mu.Unlock()
		io.WriteString(w, respond)
	}
}

var _ = Describe("Client", func() {
	var (
		seen *capture
		srv  *httptest.Server
	)

	BeforeEach(func() {
		seen = &capture{}
	})

	AfterEach(func() {
		if srv != nil {
			srv.Close()
			srv = nil
		}
	})

	Describe("GetValue", func() {
		It("issues a GET against the rendered location", func() {
			srv = httptest.NewServer(seen.handler(`{"name":"ada"}`))
			client := firebase.New(srv.URL, "users/1")

			body, err := client.GetValue(context.Background(), "shallow=true")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal(`{"name":"ada"}`))
			Expect(seen.method).To(Equal(http.MethodGet))
			Expect(seen.path).To(Equal("/users/1.json"))
			Expect(seen.query).To(Equal("shallow=true"))
		})

		It("wraps a rejection in ErrRequestFailed", func() {
			srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "Permission denied", http.StatusForbidden)
			}))
			client := firebase.New(srv.URL, "users/1")

			_, err := client.GetValue(context.Background(), "")
			Expect(err).To(MatchError(firebase.ErrRequestFailed))
			Expect(err.Error()).To(ContainSubstring("status 403"))
			Expect(err.Error()).To(ContainSubstring("Permission denied"))
		})
	})

	Describe("SetValue", func() {
		It("defaults to PATCH with a compact JSON body", func() {
			srv = httptest.NewServer(seen.handler(`{"name":"ada"}`))
			client := firebase.New(srv.URL, "users/1")

			body, err := client.SetValue(context.Background(), map[string]any{"name": "ada"}, "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal(`{"name":"ada"}`))
			Expect(seen.method).To(Equal(http.MethodPatch))
			Expect(seen.path).To(Equal("/users/1.json"))
			Expect(seen.body).To(Equal(`{"name":"ada"}`))
		})

		It("uppercases the caller's verb", func() {
			srv = httptest.NewServer(seen.handler("{}"))
			client := firebase.New(srv.URL, "users/1")

			_, err := client.SetValue(context.Background(), map[string]any{"a": 1}, "put", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(seen.method).To(Equal(http.MethodPut))
		})

		It("sends no body on DELETE", func() {
			srv = httptest.NewServer(seen.handler("null"))
			client := firebase.New(srv.URL, "users/1")

			_, err := client.SetValue(context.Background(), nil, http.MethodDelete, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(seen.method).To(Equal(http.MethodDelete))
			Expect(seen.body).To(BeEmpty())
		})

		It("forwards the query string", func() {
			srv = httptest.NewServer(seen.handler("{}"))
			client := firebase.New(srv.URL, "users/1")

			_, err := client.SetValue(context.Background(), map[string]any{"a": 1}, "", "print=silent")
			Expect(err).NotTo(HaveOccurred())
			Expect(seen.query).To(Equal("print=silent"))
		})
	})

	Describe("CallFunction", func() {
		It("requires a function host", func() {
			client := firebase.New("https://demo.firebaseio.com", "")

			_, err := client.CallFunction(context.Background(), "/hello")
			Expect(err).To(MatchError(firebase.ErrNoFunctionHost))
		})

		It("issues a GET against the function host", func() {
			srv = httptest.NewServer(seen.handler(`"hi"`))
			client := firebase.New("https://demo.firebaseio.com", "",
				firebase.WithFunctionHost(srv.URL),
			)

			body, err := client.CallFunction(context.Background(), "/hello")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(Equal(`"hi"`))
			Expect(seen.method).To(Equal(http.MethodGet))
			Expect(seen.path).To(Equal("/hello"))
		})
	})

	Describe("SetHost", func() {
		It("rebinds subsequent requests to the new location", func() {
			srv = httptest.NewServer(seen.handler("{}"))
			client := firebase.New("https://old.firebaseio.com", "old")

			client.SetHost(srv.URL, "fresh")
			_, err := client.GetValue(context.Background(), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(seen.path).To(Equal("/fresh.json"))
		})
	})

	Describe("Listen", func() {
		It("opens a stream against the client's location", func() {
			srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.URL.Path).To(Equal("/users.json"))
				io.WriteString(w, "event: put\ndata: {\"path\":\"/\",\"data\":{\"n\":1}}\n")
				w.(http.Flusher).Flush()
			}))

			puts := make(chan map[string]any, 1)
			client := firebase.New(srv.URL, "users")

			session, err := client.Listen(context.Background(), "", putChanSink{puts: puts})
			Expect(err).NotTo(HaveOccurred())
			defer session.Close()

			var document map[string]any
			Eventually(puts, "5s").Should(Receive(&document))
			Expect(document).To(HaveKeyWithValue("path", "/"))
		})

		It("refuses to listen twice on one session", func() {
			srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "event: keep-alive\ndata: null\n")
				w.(http.Flusher).Flush()
				<-r.Context().Done()
			}))

			client := firebase.New(srv.URL, "users")
			session, err := client.Listen(context.Background(), "", stream.NopSink{})
			Expect(err).NotTo(HaveOccurred())
			defer session.Close()

			err = session.Open(context.Background(), client.Path(""))
			Expect(err).To(MatchError(stream.ErrAlreadyOpen))
		})
	})
})

// putChanSink forwards put documents to a channel and discards the rest.
type putChanSink struct {
	stream.NopSink
	puts chan map[string]any
}

func (s putChanSink) OnPut(document map[string]any) {
	s.puts <- document
}
