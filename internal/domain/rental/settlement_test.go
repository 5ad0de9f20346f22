package rental_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/money"
)

func managedLine(t *testing.T, id string, finalPrice int64, rate float64) *rental.Line {
	t.Helper()
	line, err := rental.NewLine(rental.LineParams{
		ID:            rental.LineID(id),
		StallID:       "stall-1",
		StallNumber:   "A1",
		MarketplaceID: "market-1",
		Date:          time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		TenantID:      "tenant-1",
		TenantName:    "Ali",
		OwnerID:       "owner-1",
		GroupID:       "group-1",
		ListPrice:     money.Kurus(finalPrice),
		FinalPrice:    money.Kurus(finalPrice),
		Commission:    &rental.CommissionTerms{ManagerID: "manager-1", RatePercent: rate},
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)
	return line
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"TENANT", "OWNER", "MARKET_MANAGER", "ADMIN"} {
		_, err := rental.ParseRole(raw)
		assert.NoError(t, err, raw)
	}
	_, err := rental.ParseRole("GUEST")
	assert.ErrorIs(t, err, rental.ErrUnknownRole)
}

func TestProjectLine(t *testing.T) {
	line := managedLine(t, "l1", 10000, 10) // commission 1000, owner revenue 9000
	_, err := rental.ApplyPayment([]*rental.Line{line}, money.Kurus(5000))
	require.NoError(t, err)

	t.Run("tenant sees raw figures", func(t *testing.T) {
		st, err := rental.ProjectLine(line, rental.RoleTenant)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), st.Price.Amount)
		assert.Equal(t, int64(5000), st.Paid.Amount)
		assert.False(t, st.IsPaid)
	})

	t.Run("manager sees commission at the paid ratio", func(t *testing.T) {
		st, err := rental.ProjectLine(line, rental.RoleManager)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), st.Price.Amount)
		assert.Equal(t, int64(500), st.Paid.Amount, "half paid means half the commission")
	})

	t.Run("owner sees net revenue at the paid ratio", func(t *testing.T) {
		st, err := rental.ProjectLine(line, rental.RoleOwner)
		require.NoError(t, err)
		assert.Equal(t, int64(9000), st.Price.Amount)
		assert.Equal(t, int64(4500), st.Paid.Amount)
	})

	t.Run("admin sees raw figures", func(t *testing.T) {
		st, err := rental.ProjectLine(line, rental.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), st.Price.Amount)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := rental.ProjectLine(line, rental.Role("GUEST"))
		assert.ErrorIs(t, err, rental.ErrUnknownRole)
	})
}

func TestProjectLineFullyPaid(t *testing.T) {
	line := managedLine(t, "l1", 10000, 10)
	_, err := rental.ApplyPayment([]*rental.Line{line}, money.Kurus(10000))
	require.NoError(t, err)

	manager, err := rental.ProjectLine(line, rental.RoleManager)
	require.NoError(t, err)
	owner, err := rental.ProjectLine(line, rental.RoleOwner)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), manager.Paid.Amount)
	assert.Equal(t, int64(9000), owner.Paid.Amount)
	assert.True(t, manager.IsPaid)
	assert.True(t, owner.IsPaid)
	assert.Equal(t, line.FinalPrice.Amount, manager.Paid.Amount+owner.Paid.Amount,
		"fully paid shares add back up to the price")
}

func TestProjectTarget(t *testing.T) {
	l1 := managedLine(t, "l1", 10000, 10)
	l2 := managedLine(t, "l2", 20000, 10)
	group, err := rental.NewGroup("group-1", []*rental.Line{l1, l2})
	require.NoError(t, err)

	_, err = rental.ApplyPayment(group.Lines, money.Kurus(10000))
	require.NoError(t, err)

	t.Run("group sums per-line statements", func(t *testing.T) {
		st, err := rental.ProjectTarget(rental.GroupTarget{Group: group}, rental.RoleManager)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), st.Price.Amount, "10% of 300.00")
		assert.Equal(t, int64(1000), st.Paid.Amount, "only the first line is paid")
		assert.False(t, st.IsPaid)
	})

	t.Run("single target wraps one line", func(t *testing.T) {
		st, err := rental.ProjectTarget(rental.SingleTarget{Line: l1}, rental.RoleTenant)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), st.Price.Amount)
		assert.True(t, st.IsPaid)
	})
}
