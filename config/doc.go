// Package config parses and validates the load balancer's startup
// configuration from command-line flags and LB_-prefixed environment
// variables: the backend address list, the health-check interval, the
// selection algorithm, and the listen address.
package config
