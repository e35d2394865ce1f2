package store

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// contactDocument is the shape of a contact inside the MongoDB collection. The id is omitted
// when it is zero so that replacement documents do not touch _id.
type contactDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	FirstName     string        `bson:"firstName"`
	LastName      string        `bson:"lastName"`
	Email         string        `bson:"email"`
	FavoriteColor string        `bson:"favoriteColor"`
	Birthday      string        `bson:"birthday"`
}

func newContactDocument(in model.ContactInput) contactDocument {
	return contactDocument{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		FavoriteColor: in.FavoriteColor,
		Birthday:      in.Birthday,
	}
}

func (d contactDocument) toContact() model.Contact {
	return model.Contact{
		Id:            d.ID.Hex(),
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		FavoriteColor: d.FavoriteColor,
		Birthday:      d.Birthday,
	}
}

// Mongo stores contacts in a MongoDB collection. One client is shared by all requests.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// ConnectMongo opens the connection to MongoDB and verifies it with a ping. The connect timeout of
// the configuration bounds the ping.
func ConnectMongo(ctx context.Context, cfg config.StoreConfig) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("could not ping mongodb: %w", err)
	}
	return &Mongo{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *Mongo) FindAll(ctx context.Context) ([]model.Contact, error) {
	cursor, err := m.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("could not query contacts: %w", err)
	}
	var documents []contactDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, fmt.Errorf("could not read contacts: %w", err)
	}
	contacts := make([]model.Contact, 0, len(documents))
	for _, document := range documents {
		contacts = append(contacts, document.toContact())
	}
	return contacts, nil
}

func (m *Mongo) FindByID(ctx context.Context, id string) (model.Contact, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.Contact{}, fmt.Errorf("invalid contact id %q: %w", id, err)
	}
	var document contactDocument
	err = m.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("could not find contact %s: %w", id, err)
	}
	return document.toContact(), nil
}

func (m *Mongo) InsertOne(ctx context.Context, contact model.ContactInput) (model.InsertResult, error) {
	document := newContactDocument(contact)
	document.ID = bson.NewObjectID()
	result, err := m.collection.InsertOne(ctx, document)
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("could not insert contact: %w", err)
	}
	insertedID := document.ID.Hex()
	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		insertedID = oid.Hex()
	}
	return model.InsertResult{Acknowledged: result.Acknowledged, InsertedId: insertedID}, nil
}

func (m *Mongo) ReplaceOne(ctx context.Context, id string, contact model.ContactInput) (model.ReplaceResult, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.ReplaceResult{}, fmt.Errorf("invalid contact id %q: %w", id, err)
	}
	result, err := m.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, newContactDocument(contact))
	if err != nil {
		return model.ReplaceResult{}, fmt.Errorf("could not replace contact %s: %w", id, err)
	}
	return model.ReplaceResult{MatchedCount: result.MatchedCount, ModifiedCount: result.ModifiedCount}, nil
}

func (m *Mongo) DeleteOne(ctx context.Context, id string) (int64, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid contact id %q: %w", id, err)
	}
	result, err := m.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return 0, fmt.Errorf("could not delete contact %s: %w", id, err)
	}
	return result.DeletedCount, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
