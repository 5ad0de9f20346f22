package dto

type MonthlyBucket struct {
	Month   string   `json:"month"` // yyyy-mm
	Count   int      `json:"count"`
	Revenue MoneyDTO `json:"revenue"`
}

type DashboardStats struct {
	ThisMonthCount  int             `json:"this_month_count"`
	LastMonthCount  int             `json:"last_month_count"`
	Monthly         []MonthlyBucket `json:"monthly"`
	TotalRevenue    MoneyDTO        `json:"total_revenue"`
	PotentialIncome *MoneyDTO       `json:"potential_income,omitempty"`
}
