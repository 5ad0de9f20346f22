package dashboard

import (
	"context"
	"sort"
	"time"

	"tahtam/internal/app/dto"
	"tahtam/internal/app/handlers/support"
	"tahtam/internal/app/queries"
	"tahtam/internal/app/uow"
	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/money"
)

const statsKey = "dashboard.stats"

const monthsBack = 6

// StatsQuery aggregates the viewer's rental activity over the last six
// months. Figures are role-projected: owners and managers see their share of
// each line, not the gross price.
type StatsQuery struct {
	UserID string
	Role   string
}

func (q StatsQuery) Key() string { return statsKey }

type StatsHandler struct {
	UoWFactory uow.UoWFactory
	Clock      func() time.Time
}

func (h *StatsHandler) Handle(ctx context.Context, q StatsQuery) (*dto.DashboardStats, error) {
	role, err := domainrental.ParseRole(q.Role)
	if err != nil {
		return nil, err
	}
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	now := h.now()
	since := monthStart(now).AddDate(0, -(monthsBack - 1), 0)
	lines, err := unit.Rentals().ListForViewerSince(ctx, q.UserID, role, since)
	if err != nil {
		return nil, err
	}

	currency := money.DefaultCurrency
	if len(lines) > 0 {
		currency = lines[0].FinalPrice.Currency
	}

	type bucket struct {
		count   int
		revenue int64
	}
	buckets := make(map[string]*bucket, monthsBack)
	totalRevenue := money.Zero(currency)
	thisMonth := now.UTC().Format("2006-01")
	lastMonth := monthStart(now).AddDate(0, -1, 0).Format("2006-01")
	stats := &dto.DashboardStats{}

	for _, l := range lines {
		st, err := domainrental.ProjectLine(l, role)
		if err != nil {
			return nil, err
		}
		month := l.Date.Format("2006-01")
		b := buckets[month]
		if b == nil {
			b = &bucket{}
			buckets[month] = b
		}
		b.count++
		b.revenue += st.Paid.Amount
		totalRevenue.Amount += st.Paid.Amount
		if month == thisMonth {
			stats.ThisMonthCount++
		}
		if month == lastMonth {
			stats.LastMonthCount++
		}
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		b := buckets[m]
		stats.Monthly = append(stats.Monthly, dto.MonthlyBucket{
			Month:   m,
			Count:   b.count,
			Revenue: dto.NewMoneyDTO(money.Money{Amount: b.revenue, Currency: currency}),
		})
	}
	stats.TotalRevenue = dto.NewMoneyDTO(totalRevenue)

	if role == domainrental.RoleOwner {
		potential, err := h.potentialIncome(ctx, unit, q.UserID, now, currency)
		if err != nil {
			return nil, err
		}
		stats.PotentialIncome = &potential
	}
	return stats, nil
}

// potentialIncome prices every open day of the current month across the
// owner's stalls, list price, independent of actual bookings.
func (h *StatsHandler) potentialIncome(ctx context.Context, unit uow.UnitOfWork, ownerID string, now time.Time, currency string) (dto.MoneyDTO, error) {
	stalls, err := unit.Stalls().ListByOwner(ctx, ownerID)
	if err != nil {
		return dto.MoneyDTO{}, err
	}
	markets := make(map[domainmarket.MarketplaceID]*domainmarket.Marketplace)
	total := money.Zero(currency)
	first := monthStart(now)
	next := first.AddDate(0, 1, 0)
	for _, s := range stalls {
		m, ok := markets[s.MarketplaceID]
		if !ok {
			m, err = unit.Marketplaces().ByID(ctx, s.MarketplaceID)
			if err != nil {
				return dto.MoneyDTO{}, err
			}
			markets[s.MarketplaceID] = m
		}
		for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
			if m.OpenOn(domainmarket.WeekdayOf(d)) {
				total.Amount += s.PriceFor(d).Amount
			}
		}
	}
	return dto.NewMoneyDTO(total), nil
}

func (h *StatsHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

var _ queries.Handler[StatsQuery, *dto.DashboardStats] = (*StatsHandler)(nil)
