package dispatcher_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SamuelGauthier/load-balancer/internal/backend"
	"github.com/SamuelGauthier/load-balancer/internal/dispatcher"
	"github.com/SamuelGauthier/load-balancer/internal/pool"
)

func TestDispatcher(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dispatcher Suite")
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

var _ = Describe("Dispatcher", func() {
	var (
		d            *dispatcher.Dispatcher
		p            *pool.BackendPool
		backends     []*backend.Backend
		mockBackend1 *httptest.Server
		log          *slog.Logger
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, nil))

		mockBackend1 = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("backend1"))
		}))

		backends = []*backend.Backend{backend.New(mustParseURL(mockBackend1.URL))}
		p = pool.New(backends, pool.RoundRobin)
		d = dispatcher.New(p, log)
	})

	AfterEach(func() {
		mockBackend1.Close()
	})

	Describe("New", func() {
		It("builds a dispatcher", func() {
			Expect(d).NotTo(BeNil())
		})
	})

	Describe("ServeHTTP", func() {
		It("proxies the request to the backend and tags the response", func() {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			d.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("backend1"))
			Expect(w.Header().Get("X-Backend-Server")).To(Equal(mockBackend1.URL))
		})

		It("keeps the backend healthy after a successful request", func() {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			d.ServeHTTP(w, req)

			healthy, unhealthy := p.Counts()
			Expect(healthy).To(Equal(1))
			Expect(unhealthy).To(Equal(0))
		})

		Context("with no healthy backends", func() {
			BeforeEach(func() {
				p.Reclassify(backends[0], backend.Unhealthy)
			})

			It("returns 503 with the fixed unavailable body", func() {
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				w := httptest.NewRecorder()

				d.ServeHTTP(w, req)

				Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
				Expect(w.Body.String()).To(ContainSubstring("No healthy backends available"))
			})
		})

		Context("when the selected backend errors", func() {
			It("demotes the backend to unhealthy", func() {
				failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
				}))
				defer failing.Close()

				failingBackends := []*backend.Backend{backend.New(mustParseURL(failing.URL))}
				failingPool := pool.New(failingBackends, pool.RoundRobin)
				fd := dispatcher.New(failingPool, log)

				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				w := httptest.NewRecorder()
				fd.ServeHTTP(w, req)

				Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
				healthy, unhealthy := failingPool.Counts()
				Expect(healthy).To(Equal(0))
				Expect(unhealthy).To(Equal(1))
			})
		})

		It("round-robins across backends on successive requests", func() {
			mockBackend2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("backend2"))
			}))
			defer mockBackend2.Close()

			multi := []*backend.Backend{
				backend.New(mustParseURL(mockBackend1.URL)),
				backend.New(mustParseURL(mockBackend2.URL)),
			}
			mp := pool.New(multi, pool.RoundRobin)
			md := dispatcher.New(mp, log)

			req1 := httptest.NewRequest(http.MethodGet, "/test", nil)
			w1 := httptest.NewRecorder()
			md.ServeHTTP(w1, req1)

			req2 := httptest.NewRequest(http.MethodGet, "/test", nil)
			w2 := httptest.NewRecorder()
			md.ServeHTTP(w2, req2)

			Expect(w1.Body.String()).To(Equal("backend1"))
			Expect(w2.Body.String()).To(Equal("backend2"))
		})
	})
})
