package config_test

import (
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SamuelGauthier/load-balancer/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	AfterEach(func() {
		os.Unsetenv("LB_HEALTH_CHECK")
		os.Unsetenv("LB_DYNAMIC_ALGO")
	})

	Describe("Load", func() {
		Context("with a well-formed flag set", func() {
			It("parses backends, algorithm, and health-check period", func() {
				cfg, err := config.Load([]string{
					"-b", "http://localhost:8081",
					"-b", "http://localhost:8082",
					"-c", "5",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Backends).To(Equal([]string{"http://localhost:8081", "http://localhost:8082"}))
				Expect(cfg.HealthCheckPeriod).To(Equal(5 * time.Second))
				Expect(cfg.Algorithm).To(Equal(config.RoundRobin))
			})

			It("selects LeastResponseTime when --dynamic-algo is present", func() {
				cfg, err := config.Load([]string{
					"-b", "http://localhost:8081",
					"-d",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Algorithm).To(Equal(config.LeastResponseTime))
			})

			It("defaults the health-check period and listen address when omitted", func() {
				cfg, err := config.Load([]string{"-b", "http://localhost:8081"})
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.HealthCheckPeriod).To(Equal(config.DefaultHealthCheckInterval))
				Expect(cfg.ListenAddress).To(Equal(config.DefaultListenAddress))
			})
		})

		Context("with no backends", func() {
			It("fails with a ConfigurationError", func() {
				_, err := config.Load(nil)
				Expect(err).To(HaveOccurred())
				Expect(err).To(BeAssignableToTypeOf(&config.ConfigurationError{}))
			})
		})

		Context("with a malformed backend URL", func() {
			It("fails validation", func() {
				_, err := config.Load([]string{"-b", "not-a-url"})
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with an unparsable flag", func() {
			It("fails with a ConfigurationError before validation runs", func() {
				_, err := config.Load([]string{"--not-a-real-flag"})
				Expect(err).To(HaveOccurred())
			})
		})
	})
})
