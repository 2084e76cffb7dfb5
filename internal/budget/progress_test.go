package budget_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-dashboard/internal/budget"
	"github.com/frahmantamala/expense-dashboard/internal/expense"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func spend(category, amount string, date time.Time) *expense.Expense {
	return &expense.Expense{ID: amount + category, CompanyID: "acme", Category: category, Amount: dec(amount), Date: date}
}

var _ = Describe("Progress", func() {
	jan := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }

	rent := func() *budget.Budget {
		return &budget.Budget{ID: "b-rent", CompanyID: "acme", Category: "rent", Amount: dec("1000"), Period: budget.PeriodMonthly}
	}

	Describe("StatusFor", func() {
		DescribeTable("thresholds",
			func(pct string, want budget.Status) {
				Expect(budget.StatusFor(dec(pct))).To(Equal(want))
			},
			Entry("zero", "0", budget.StatusOnTrack),
			Entry("just under warning", "79.999", budget.StatusOnTrack),
			Entry("exactly 80", "80", budget.StatusWarning),
			Entry("99.999", "99.999", budget.StatusWarning),
			Entry("exactly 100", "100", budget.StatusExceeded),
			Entry("over", "150", budget.StatusExceeded),
		)
	})

	It("reports 800 of 1000 as warning", func() {
		out := budget.Compute([]*budget.Budget{rent()}, []*expense.Expense{
			spend("rent", "500", jan(3)),
			spend("rent", "300", jan(20)),
			spend("water", "999", jan(4)),
		})

		Expect(out).To(HaveLen(1))
		p := out[0]
		Expect(p.CurrentSpending.Equal(dec("800"))).To(BeTrue())
		Expect(p.PercentageUsed).To(Equal(80.0))
		Expect(p.Remaining.Equal(dec("200"))).To(BeTrue())
		Expect(p.Status).To(Equal(budget.StatusWarning))
	})

	It("reports 1200 of 1000 as exceeded with negative remaining", func() {
		out := budget.Compute([]*budget.Budget{rent()}, []*expense.Expense{
			spend("rent", "700", jan(3)),
			spend("rent", "500", jan(4)),
		})

		Expect(out[0].Status).To(Equal(budget.StatusExceeded))
		Expect(out[0].Remaining.Equal(dec("-200"))).To(BeTrue())
		Expect(out[0].PercentageUsed).To(Equal(120.0))
	})

	It("hits the boundaries exactly", func() {
		b := &budget.Budget{ID: "b", Category: "rent", Amount: dec("100000")}

		p := budget.Compute([]*budget.Budget{b}, []*expense.Expense{spend("rent", "99999", jan(1))})[0]
		Expect(p.PercentageUsed).To(BeNumerically("~", 99.999, 1e-9))
		Expect(p.Status).To(Equal(budget.StatusWarning))

		p = budget.Compute([]*budget.Budget{b}, []*expense.Expense{spend("rent", "100000", jan(1))})[0]
		Expect(p.Status).To(Equal(budget.StatusExceeded))
	})

	Describe("period window", func() {
		It("includes both bounds at day granularity", func() {
			start, end := jan(10), jan(20)
			b := rent()
			b.StartDate, b.EndDate = &start, &end

			out := budget.Compute([]*budget.Budget{b}, []*expense.Expense{
				spend("rent", "1", jan(9)),
				spend("rent", "10", jan(10)),
				spend("rent", "100", jan(20).Add(23*time.Hour)),
				spend("rent", "1000", jan(21)),
			})
			Expect(out[0].CurrentSpending.Equal(dec("110"))).To(BeTrue())
		})

		It("treats a budget with one bound as all-time", func() {
			start := jan(10)
			b := rent()
			b.StartDate = &start

			out := budget.Compute([]*budget.Budget{b}, []*expense.Expense{
				spend("rent", "1", jan(1)),
				spend("rent", "2", jan(30)),
			})
			Expect(out[0].CurrentSpending.Equal(dec("3"))).To(BeTrue())
		})
	})

	It("never divides by a non-positive amount", func() {
		b := rent()
		b.Amount = decimal.Zero
		p := budget.Compute([]*budget.Budget{b}, nil)[0]
		Expect(p.Status).To(Equal(budget.StatusExceeded))
		Expect(p.PercentageUsed).To(BeZero())
	})

	It("keeps budget order and reports empty budgets as on track", func() {
		water := &budget.Budget{ID: "b-water", Category: "water", Amount: dec("50")}
		out := budget.Compute([]*budget.Budget{water, rent()}, nil)
		Expect(out).To(HaveLen(2))
		Expect(out[0].Budget.ID).To(Equal("b-water"))
		Expect(out[1].Status).To(Equal(budget.StatusOnTrack))
		Expect(out[1].CurrentSpending.IsZero()).To(BeTrue())
	})

	It("never moves back from exceeded while spending grows", func() {
		b := rent()
		var expenses []*expense.Expense
		rank := map[budget.Status]int{budget.StatusOnTrack: 0, budget.StatusWarning: 1, budget.StatusExceeded: 2}
		last := budget.StatusOnTrack
		for i := 0; i < 30; i++ {
			expenses = append(expenses, spend("rent", "55.5", jan(1+i)))
			p := budget.Compute([]*budget.Budget{b}, expenses)[0]
			Expect(rank[p.Status]).To(BeNumerically(">=", rank[last]))
			last = p.Status
		}
		Expect(last).To(Equal(budget.StatusExceeded))
	})

	It("summarizes totals and status counts", func() {
		water := &budget.Budget{ID: "b-water", Category: "water", Amount: dec("100")}
		out := budget.Compute([]*budget.Budget{rent(), water}, []*expense.Expense{
			spend("rent", "900", jan(1)),
			spend("water", "10", jan(1)),
		})

		s := budget.Summarize(out)
		Expect(s.TotalBudget.Equal(dec("1100"))).To(BeTrue())
		Expect(s.TotalSpending.Equal(dec("910"))).To(BeTrue())
		Expect(s.Remaining.Equal(dec("190"))).To(BeTrue())
		Expect(s.Warning).To(Equal(1))
		Expect(s.OnTrack).To(Equal(1))
		Expect(s.Exceeded).To(BeZero())
	})
})
