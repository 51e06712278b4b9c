// Backend is a disposable upstream used to exercise the load balancer by
// hand: it answers /health for the health monitor and a generic /echo
// route that reports which instance handled the request, so a human (or
// loadtest.go) can see the distribution across backends.
//
// Usage:
//
//	go run backend.go -port 8081
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
)

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	failAfter := flag.Int("fail-after", 0, "if > 0, start answering /health with 503 after this many requests")
	flag.Parse()

	addr := fmt.Sprintf(":%d", *port)
	var requestCount atomic.Int64

	mux := http.NewServeMux()

	// echo reports the instance's own address and the request it received,
	// so a caller behind a load balancer can tell which backend answered.
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		n := requestCount.Add(1)
		log.Printf("request #%d: method=%s path=%s from=%s", n, r.Method, r.URL.Path, r.RemoteAddr)
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "backend=%s request=%d\n", addr, n)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if *failAfter > 0 && requestCount.Load() >= int64(*failAfter) {
			http.Error(w, "forced unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	log.Printf("starting backend on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
