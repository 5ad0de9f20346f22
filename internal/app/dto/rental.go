package dto

import (
	"time"

	domainrental "tahtam/internal/domain/rental"
)

type RentalLineView struct {
	ID            string    `json:"id"`
	StallID       string    `json:"stall_id"`
	StallNumber   string    `json:"stall_number"`
	MarketplaceID string    `json:"marketplace_id"`
	Date          string    `json:"date"`
	TenantID      string    `json:"tenant_id"`
	TenantName    string    `json:"tenant_name"`
	OwnerID       string    `json:"owner_id"`
	ManagerID     string    `json:"manager_id,omitempty"`
	GroupID       string    `json:"group_id,omitempty"`
	Price         MoneyDTO  `json:"price"`
	PaidAmount    MoneyDTO  `json:"paid_amount"`
	IsPaid        bool      `json:"is_paid"`
	IsManaged     bool      `json:"is_managed"`
	CreatedAt     time.Time `json:"created_at"`
}

type RentalLineCollection struct {
	Items []RentalLineView `json:"items"`
}

type StatementView struct {
	Price  MoneyDTO `json:"price"`
	Paid   MoneyDTO `json:"paid"`
	IsPaid bool     `json:"is_paid"`
}

type AllocationView struct {
	LineID    string   `json:"line_id"`
	Applied   MoneyDTO `json:"applied"`
	PaidAfter MoneyDTO `json:"paid_after"`
	IsPaid    bool     `json:"is_paid"`
}

// NewRentalLineView renders the line through the viewer's settlement lens:
// tenants and admins see raw figures, managers and owners their share.
func NewRentalLineView(l *domainrental.Line, role domainrental.Role) (RentalLineView, error) {
	st, err := domainrental.ProjectLine(l, role)
	if err != nil {
		return RentalLineView{}, err
	}
	return RentalLineView{
		ID:            string(l.ID),
		StallID:       string(l.StallID),
		StallNumber:   l.StallNumber,
		MarketplaceID: string(l.MarketplaceID),
		Date:          l.DateString,
		TenantID:      l.TenantID,
		TenantName:    l.TenantName,
		OwnerID:       l.OwnerID,
		ManagerID:     l.ManagerID,
		GroupID:       string(l.GroupID),
		Price:         NewMoneyDTO(st.Price),
		PaidAmount:    NewMoneyDTO(st.Paid),
		IsPaid:        st.IsPaid,
		IsManaged:     l.IsManaged,
		CreatedAt:     l.CreatedAt,
	}, nil
}

func NewRentalLineCollection(lines []*domainrental.Line, role domainrental.Role) (RentalLineCollection, error) {
	items := make([]RentalLineView, 0, len(lines))
	for _, l := range lines {
		view, err := NewRentalLineView(l, role)
		if err != nil {
			return RentalLineCollection{}, err
		}
		items = append(items, view)
	}
	return RentalLineCollection{Items: items}, nil
}

func NewStatementView(st domainrental.Statement) StatementView {
	return StatementView{
		Price:  NewMoneyDTO(st.Price),
		Paid:   NewMoneyDTO(st.Paid),
		IsPaid: st.IsPaid,
	}
}

func NewAllocationViews(allocs []domainrental.Allocation) []AllocationView {
	out := make([]AllocationView, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, AllocationView{
			LineID:    string(a.LineID),
			Applied:   NewMoneyDTO(a.Applied),
			PaidAfter: NewMoneyDTO(a.PaidAfter),
			IsPaid:    a.IsPaid,
		})
	}
	return out
}
