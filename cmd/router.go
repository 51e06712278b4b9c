package main

import (
	"net/http"

	"github.com/SamuelGauthier/load-balancer/internal/dispatcher"
)

func setupRouter(d *dispatcher.Dispatcher) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", d)
	return mux
}
