package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainmarket "tahtam/internal/domain/market"
)

type MarketplaceRepository struct {
	col *mongo.Collection
}

func NewMarketplaceRepository(db *mongo.Database) *MarketplaceRepository {
	return &MarketplaceRepository{col: db.Collection("marketplaces")}
}

func (r *MarketplaceRepository) ByID(ctx context.Context, id domainmarket.MarketplaceID) (*domainmarket.Marketplace, error) {
	var doc marketplaceDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainmarket.ErrMarketplaceNotFound
		}
		return nil, err
	}
	return doc.toMarketplace(), nil
}

func (r *MarketplaceRepository) Save(ctx context.Context, m *domainmarket.Marketplace) error {
	doc := newMarketplaceDocument(m)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *MarketplaceRepository) Delete(ctx context.Context, id domainmarket.MarketplaceID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainmarket.ErrMarketplaceNotFound
	}
	return nil
}

func (r *MarketplaceRepository) List(ctx context.Context) ([]*domainmarket.Marketplace, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var items []*domainmarket.Marketplace
	for cursor.Next(ctx) {
		var doc marketplaceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, doc.toMarketplace())
	}
	return items, cursor.Err()
}

type marketplaceDocument struct {
	ID       string   `bson:"_id"`
	Name     string   `bson:"name"`
	OpenDays []string `bson:"openDays"`
}

func newMarketplaceDocument(m *domainmarket.Marketplace) marketplaceDocument {
	days := make([]string, 0, len(m.OpenDays))
	for _, d := range m.OpenDays {
		days = append(days, string(d))
	}
	return marketplaceDocument{ID: string(m.ID), Name: m.Name, OpenDays: days}
}

func (d marketplaceDocument) toMarketplace() *domainmarket.Marketplace {
	days := make([]domainmarket.Weekday, 0, len(d.OpenDays))
	for _, raw := range d.OpenDays {
		days = append(days, domainmarket.Weekday(raw))
	}
	return &domainmarket.Marketplace{
		ID:       domainmarket.MarketplaceID(d.ID),
		Name:     d.Name,
		OpenDays: days,
	}
}

var _ domainmarket.MarketplaceRepository = (*MarketplaceRepository)(nil)
