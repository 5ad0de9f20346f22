package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "tahtam/internal/app/outbox"
)

const (
	statusPending = "pending"
	statusClaimed = "claimed"
	statusSent    = "sent"
)

// EventDocument is one outbox row awaiting delivery.
type EventDocument struct {
	ID            string            `bson:"_id"`
	Name          string            `bson:"name"`
	Aggregate     string            `bson:"aggregate"`
	Payload       []byte            `bson:"payload"`
	Headers       map[string]string `bson:"headers,omitempty"`
	OccurredAt    time.Time         `bson:"occurredAt"`
	Status        string            `bson:"status"`
	Attempts      int               `bson:"attempts"`
	NextAttemptAt time.Time         `bson:"nextAttemptAt"`
	ClaimedBy     string            `bson:"claimedBy,omitempty"`
	LastError     string            `bson:"lastError,omitempty"`
}

// Store persists outbox rows in Mongo. Add runs inside the caller's session
// so the event commits atomically with the state change it describes.
type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection("outbox")}
}

func (s *Store) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := EventDocument{
		ID:            uuid.NewString(),
		Name:          record.Name,
		Aggregate:     record.Aggregate,
		Payload:       record.Payload,
		Headers:       record.Headers,
		OccurredAt:    record.OccurredAt,
		Status:        statusPending,
		NextAttemptAt: time.Now().UTC(),
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

// Claim atomically grabs one due pending row for this worker. A nil document
// with nil error means nothing is due.
func (s *Store) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"status":        bson.M{"$in": []string{statusPending, statusClaimed}},
		"nextAttemptAt": bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{
		"status":    statusClaimed,
		"claimedBy": workerID,
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "occurredAt", Value: 1}}).
		SetReturnDocument(options.After)
	var doc EventDocument
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"status": statusSent, "sentAt": time.Now().UTC()}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id string, nextAttempt time.Time, reason string) error {
	update := bson.M{
		"$set": bson.M{
			"status":        statusPending,
			"nextAttemptAt": nextAttempt.UTC(),
			"lastError":     reason,
		},
		"$inc": bson.M{"attempts": 1},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
