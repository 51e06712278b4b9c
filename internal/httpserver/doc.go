// Package httpserver wraps net/http.Server with a bounded graceful
// shutdown, independent of what handler it serves. Listen-address
// validation lives in config, the only place an address is accepted from
// outside the process.
package httpserver
