package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
	"tahtam/internal/domain/shared/money"
)

type RentalRepository struct {
	col *mongo.Collection
}

func NewRentalRepository(db *mongo.Database) *RentalRepository {
	return &RentalRepository{col: db.Collection("rentals")}
}

func (r *RentalRepository) ByID(ctx context.Context, id domainrental.LineID) (*domainrental.Line, error) {
	var doc rentalDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrental.ErrLineNotFound
		}
		return nil, err
	}
	return doc.toLine(), nil
}

func (r *RentalRepository) ByGroup(ctx context.Context, id domainrental.GroupID) ([]*domainrental.Line, error) {
	if id == "" {
		return nil, domainrental.ErrGroupNotFound
	}
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	return r.findLines(ctx, bson.M{"groupId": string(id)}, opts)
}

func (r *RentalRepository) ExistingDates(ctx context.Context, stallID domainmarket.StallID, dateKeys []string) ([]string, error) {
	if len(dateKeys) == 0 {
		return nil, nil
	}
	filter := bson.M{"stallId": string(stallID), "dateString": bson.M{"$in": dateKeys}}
	raw, err := r.col.Distinct(ctx, "dateString", filter)
	if err != nil {
		return nil, err
	}
	taken := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			taken = append(taken, s)
		}
	}
	return taken, nil
}

func (r *RentalRepository) InsertAll(ctx context.Context, lines []*domainrental.Line) error {
	if len(lines) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(lines))
	for i, l := range lines {
		docs = append(docs, newRentalDocument(l, i))
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

func (r *RentalRepository) UpdatePayments(ctx context.Context, lines []*domainrental.Line) error {
	for _, l := range lines {
		update := bson.M{"$set": bson.M{
			"paidAmount": l.PaidAmount.Amount,
			"isPaid":     l.IsPaid,
		}}
		res, err := r.col.UpdateOne(ctx, bson.M{"_id": string(l.ID)}, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return domainrental.ErrLineNotFound
		}
	}
	return nil
}

func (r *RentalRepository) Delete(ctx context.Context, id domainrental.LineID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainrental.ErrLineNotFound
	}
	return nil
}

func (r *RentalRepository) DeleteByGroup(ctx context.Context, id domainrental.GroupID) (int, error) {
	if id == "" {
		return 0, domainrental.ErrGroupNotFound
	}
	res, err := r.col.DeleteMany(ctx, bson.M{"groupId": string(id)})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

func (r *RentalRepository) DeleteByStall(ctx context.Context, stallID domainmarket.StallID) (int, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"stallId": string(stallID)})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

func (r *RentalRepository) ListForViewer(ctx context.Context, userID string, role domainrental.Role) ([]*domainrental.Line, error) {
	filter, err := viewerFilter(userID, role)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "seq", Value: 1}})
	return r.findLines(ctx, filter, opts)
}

func (r *RentalRepository) ListByMarketAndDate(ctx context.Context, marketID domainmarket.MarketplaceID, dateKey string) ([]*domainrental.Line, error) {
	filter := bson.M{"marketplaceId": string(marketID), "dateString": dateKey}
	opts := options.Find().SetSort(bson.D{{Key: "stallNumber", Value: 1}})
	return r.findLines(ctx, filter, opts)
}

func (r *RentalRepository) ListForViewerSince(ctx context.Context, userID string, role domainrental.Role, since time.Time) ([]*domainrental.Line, error) {
	filter, err := viewerFilter(userID, role)
	if err != nil {
		return nil, err
	}
	filter["date"] = bson.M{"$gte": since.UTC().UnixMilli()}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.findLines(ctx, filter, opts)
}

func (r *RentalRepository) findLines(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainrental.Line, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var lines []*domainrental.Line
	for cursor.Next(ctx) {
		var doc rentalDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		lines = append(lines, doc.toLine())
	}
	return lines, cursor.Err()
}

func viewerFilter(userID string, role domainrental.Role) (bson.M, error) {
	switch role {
	case domainrental.RoleAdmin:
		return bson.M{}, nil
	case domainrental.RoleTenant:
		return bson.M{"tenantId": userID}, nil
	case domainrental.RoleOwner:
		return bson.M{"ownerId": userID}, nil
	case domainrental.RoleManager:
		return bson.M{"managerId": userID}, nil
	}
	return nil, domainrental.ErrUnknownRole
}

type rentalDocument struct {
	ID               string  `bson:"_id"`
	StallID          string  `bson:"stallId"`
	StallNumber      string  `bson:"stallNumber"`
	MarketplaceID    string  `bson:"marketplaceId"`
	Date             int64   `bson:"date"`
	DateString       string  `bson:"dateString"`
	TenantID         string  `bson:"tenantId"`
	TenantName       string  `bson:"tenantName"`
	OwnerID          string  `bson:"ownerId"`
	ManagerID        string  `bson:"managerId,omitempty"`
	GroupID          string  `bson:"groupId,omitempty"`
	ListPrice        int64   `bson:"listPrice"`
	Price            int64   `bson:"price"`
	PaidAmount       int64   `bson:"paidAmount"`
	IsPaid           bool    `bson:"isPaid"`
	IsManaged        bool    `bson:"isManaged"`
	CommissionRate   float64 `bson:"commissionRate,omitempty"`
	CommissionAmount int64   `bson:"commissionAmount"`
	OwnerRevenue     int64   `bson:"ownerRevenue"`
	Currency         string  `bson:"currency"`
	CreatedAt        int64   `bson:"createdAt"`
	Seq              int     `bson:"seq"`
}

// Seq preserves the batch creation order inside a group; the payment
// waterfall replays lines in exactly this order.
func newRentalDocument(l *domainrental.Line, seq int) rentalDocument {
	return rentalDocument{
		ID:               string(l.ID),
		StallID:          string(l.StallID),
		StallNumber:      l.StallNumber,
		MarketplaceID:    string(l.MarketplaceID),
		Date:             l.Date.UnixMilli(),
		DateString:       l.DateString,
		TenantID:         l.TenantID,
		TenantName:       l.TenantName,
		OwnerID:          l.OwnerID,
		ManagerID:        l.ManagerID,
		GroupID:          string(l.GroupID),
		ListPrice:        l.ListPrice.Amount,
		Price:            l.FinalPrice.Amount,
		PaidAmount:       l.PaidAmount.Amount,
		IsPaid:           l.IsPaid,
		IsManaged:        l.IsManaged,
		CommissionRate:   l.CommissionRate,
		CommissionAmount: l.CommissionAmount.Amount,
		OwnerRevenue:     l.OwnerRevenue.Amount,
		Currency:         l.FinalPrice.Currency,
		CreatedAt:        l.CreatedAt.UnixMilli(),
		Seq:              seq,
	}
}

func (d rentalDocument) toLine() *domainrental.Line {
	return &domainrental.Line{
		ID:               domainrental.LineID(d.ID),
		StallID:          domainmarket.StallID(d.StallID),
		StallNumber:      d.StallNumber,
		MarketplaceID:    domainmarket.MarketplaceID(d.MarketplaceID),
		Date:             time.UnixMilli(d.Date).UTC(),
		DateString:       d.DateString,
		TenantID:         d.TenantID,
		TenantName:       d.TenantName,
		OwnerID:          d.OwnerID,
		ManagerID:        d.ManagerID,
		GroupID:          domainrental.GroupID(d.GroupID),
		ListPrice:        money.Money{Amount: d.ListPrice, Currency: d.Currency},
		FinalPrice:       money.Money{Amount: d.Price, Currency: d.Currency},
		PaidAmount:       money.Money{Amount: d.PaidAmount, Currency: d.Currency},
		IsPaid:           d.IsPaid,
		IsManaged:        d.IsManaged,
		CommissionRate:   d.CommissionRate,
		CommissionAmount: money.Money{Amount: d.CommissionAmount, Currency: d.Currency},
		OwnerRevenue:     money.Money{Amount: d.OwnerRevenue, Currency: d.Currency},
		CreatedAt:        time.UnixMilli(d.CreatedAt).UTC(),
	}
}

var _ domainrental.Repository = (*RentalRepository)(nil)
