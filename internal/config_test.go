package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

var _ = Describe("Config", func() {
	var cfg *Config

	BeforeEach(func() {
		GinkgoT().Setenv("DATABASE_URL", "postgres://localhost/expense_dashboard")
		GinkgoT().Setenv("JWT_ACCESS_SECRET", "access-secret-that-is-long-enough-000")
		GinkgoT().Setenv("JWT_REFRESH_SECRET", "refresh-secret-that-is-long-enough-00")
		cfg = LoadConfigFromEnv()
	})

	It("loads sane defaults from the environment", func() {
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(15 * time.Minute))
		Expect(cfg.Observability.Logging.Format).To(Equal("json"))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("parses overrides", func() {
		GinkgoT().Setenv("HTTP_PORT", "9090")
		GinkgoT().Setenv("METRICS_ENABLED", "false")
		GinkgoT().Setenv("HTTP_READ_TIMEOUT", "30s")

		cfg = LoadConfigFromEnv()
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Observability.Metrics.Enabled).To(BeFalse())
		Expect(cfg.Server.ReadTimeout).To(Equal(30 * time.Second))
	})

	It("rejects identical token secrets", func() {
		cfg.Security.JWTRefreshSecret = cfg.Security.JWTAccessSecret
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("must differ")))
	})

	It("rejects a missing database source", func() {
		cfg.Database.Source = ""
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("source is required")))
	})

	It("rejects unknown log levels", func() {
		cfg.Observability.Logging.Level = "verbose"
		Expect(cfg.Validate()).To(HaveOccurred())
	})
})

var _ = Describe("AppError", func() {
	It("matches the outermost code", func() {
		err := NewInternalError("boom", ErrBudgetNotFound)
		Expect(IsCode(err, ErrCodeBudgetNotFound)).To(BeFalse())
		Expect(IsCode(fmt.Errorf("wrapped: %w", ErrBudgetNotFound), ErrCodeBudgetNotFound)).To(BeTrue())
	})

	It("renders under an error envelope", func() {
		status, body := ErrLastOwner.ToHTTPResponse()
		Expect(status).To(Equal(409))
		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"error":{"type":"CONFLICT","code":"LAST_OWNER"`))
	})
})

var _ = Describe("Identity context", func() {
	It("round-trips the authenticated identity", func() {
		u := &rbac.User{ID: "u-1", GlobalRole: rbac.GlobalRoleMember}
		got, ok := IdentityFromContext(ContextWithIdentity(context.Background(), u))
		Expect(ok).To(BeTrue())
		Expect(got.ID).To(Equal("u-1"))
	})

	It("reports a missing or nil identity", func() {
		_, ok := IdentityFromContext(context.Background())
		Expect(ok).To(BeFalse())

		_, ok = IdentityFromContext(ContextWithIdentity(context.Background(), nil))
		Expect(ok).To(BeFalse())
	})
})
