package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainmarket "tahtam/internal/domain/market"
	"tahtam/internal/domain/shared/money"
)

type StallRepository struct {
	col *mongo.Collection
}

func NewStallRepository(db *mongo.Database) *StallRepository {
	return &StallRepository{col: db.Collection("stalls")}
}

func (r *StallRepository) ByID(ctx context.Context, id domainmarket.StallID) (*domainmarket.Stall, error) {
	var doc stallDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainmarket.ErrStallNotFound
		}
		return nil, err
	}
	return doc.toStall(), nil
}

func (r *StallRepository) Save(ctx context.Context, s *domainmarket.Stall) error {
	doc := newStallDocument(s)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *StallRepository) Delete(ctx context.Context, id domainmarket.StallID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainmarket.ErrStallNotFound
	}
	return nil
}

func (r *StallRepository) ListByMarketplace(ctx context.Context, marketID domainmarket.MarketplaceID, ownerID string) ([]*domainmarket.Stall, error) {
	filter := bson.M{"marketplaceId": string(marketID)}
	if ownerID != "" {
		filter["ownerId"] = ownerID
	}
	return r.findStalls(ctx, filter)
}

func (r *StallRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainmarket.Stall, error) {
	return r.findStalls(ctx, bson.M{"ownerId": ownerID})
}

func (r *StallRepository) findStalls(ctx context.Context, filter bson.M) ([]*domainmarket.Stall, error) {
	opts := options.Find().SetSort(bson.D{{Key: "stallNumber", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var stalls []*domainmarket.Stall
	for cursor.Next(ctx) {
		var doc stallDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		stalls = append(stalls, doc.toStall())
	}
	return stalls, cursor.Err()
}

type stallDocument struct {
	ID            string           `bson:"_id"`
	MarketplaceID string           `bson:"marketplaceId"`
	OwnerID       string           `bson:"ownerId"`
	StallNumber   string           `bson:"stallNumber"`
	ProductTypes  []string         `bson:"productTypes,omitempty"`
	Prices        map[string]int64 `bson:"prices,omitempty"`
	DefaultPrice  int64            `bson:"defaultPrice"`
	Currency      string           `bson:"currency"`
	CreatedAt     int64            `bson:"createdAt"`
}

func newStallDocument(s *domainmarket.Stall) stallDocument {
	var prices map[string]int64
	if len(s.Prices) > 0 {
		prices = make(map[string]int64, len(s.Prices))
		for day, price := range s.Prices {
			prices[string(day)] = price.Amount
		}
	}
	return stallDocument{
		ID:            string(s.ID),
		MarketplaceID: string(s.MarketplaceID),
		OwnerID:       s.OwnerID,
		StallNumber:   s.StallNumber,
		ProductTypes:  s.ProductTypes,
		Prices:        prices,
		DefaultPrice:  s.DefaultPrice.Amount,
		Currency:      s.DefaultPrice.Currency,
		CreatedAt:     s.CreatedAt.UnixMilli(),
	}
}

func (d stallDocument) toStall() *domainmarket.Stall {
	var prices domainmarket.PriceTable
	if len(d.Prices) > 0 {
		prices = make(domainmarket.PriceTable, len(d.Prices))
		for day, amount := range d.Prices {
			prices[domainmarket.Weekday(day)] = money.Money{Amount: amount, Currency: d.Currency}
		}
	}
	return &domainmarket.Stall{
		ID:            domainmarket.StallID(d.ID),
		MarketplaceID: domainmarket.MarketplaceID(d.MarketplaceID),
		OwnerID:       d.OwnerID,
		StallNumber:   d.StallNumber,
		ProductTypes:  d.ProductTypes,
		Prices:        prices,
		DefaultPrice:  money.Money{Amount: d.DefaultPrice, Currency: d.Currency},
		CreatedAt:     time.UnixMilli(d.CreatedAt).UTC(),
	}
}

var _ domainmarket.StallRepository = (*StallRepository)(nil)
