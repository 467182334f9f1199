package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/bankrecon/internal/domain"
)

const balanceDateLayout = "02-01-2006"

// GroupByPeriod groups the real records by calendar month. Aggregates are
// returned in ascending period order; records keep their input order.
func GroupByPeriod(records []domain.TransactionRecord) []domain.PeriodAggregate {
	index := make(map[domain.PeriodKey]int)
	var aggs []domain.PeriodAggregate

	for _, r := range records {
		if r.Synthetic {
			continue
		}

		i, ok := index[r.Period]
		if !ok {
			i = len(aggs)
			index[r.Period] = i
			aggs = append(aggs, domain.PeriodAggregate{
				Period: r.Period,
				Net:    decimal.Zero,
			})
		}

		agg := &aggs[i]
		agg.Records = append(agg.Records, r)
		agg.Net = agg.Net.Add(r.Amount)
		if r.Date.After(agg.LatestDate) {
			agg.LatestDate = r.Date
		}
	}

	sort.SliceStable(aggs, func(i, j int) bool {
		return aggs[i].Period.Before(aggs[j].Period)
	})

	return aggs
}

// Flatten returns the records of aggs in period order.
func Flatten(aggs []domain.PeriodAggregate) []domain.TransactionRecord {
	var out []domain.TransactionRecord
	for _, a := range aggs {
		out = append(out, a.Records...)
	}
	return out
}

// BalanceLabel is the label of the synthetic record balancing period p.
func BalanceLabel(p domain.PeriodKey) string {
	return "Balance " + p.String()
}

// BalanceRecords builds one synthetic record per aggregate that brings the
// period's signed total to zero. Periods with a zero net still get a record.
func BalanceRecords(aggs []domain.PeriodAggregate, counterpart string) []domain.TransactionRecord {
	out := make([]domain.TransactionRecord, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, domain.TransactionRecord{
			RawDate:   a.LatestDate.Format(balanceDateLayout),
			Label:     BalanceLabel(a.Period),
			Amount:    a.Net.Neg(),
			Date:      a.LatestDate,
			Period:    a.Period,
			Account:   domain.AccountOf(counterpart),
			Synthetic: true,
		})
	}
	return out
}
