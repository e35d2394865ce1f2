// Package store provides the persistence backends for contacts.
//
// All backends identify contacts by a 24 character hexadecimal string in the format of a MongoDB
// ObjectId, regardless of where the data actually lives.
package store

import (
	"context"
	"errors"
	"strings"

	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrNotFound is returned by FindByID if no contact has the requested id.
var ErrNotFound = errors.New("contact not found")

// Store is the set of operations the contacts service performs on its backend. Each method is a
// single storage call.
type Store interface {
	// FindAll returns every contact. The result is never nil.
	FindAll(ctx context.Context) ([]model.Contact, error)
	// FindByID returns the contact with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (model.Contact, error)
	// InsertOne stores a new contact and reports the id it was assigned.
	InsertOne(ctx context.Context, contact model.ContactInput) (model.InsertResult, error)
	// ReplaceOne overwrites all fields of the contact with the given id.
	ReplaceOne(ctx context.Context, id string, contact model.ContactInput) (model.ReplaceResult, error)
	// DeleteOne removes the contact with the given id and returns the number of deleted contacts.
	DeleteOne(ctx context.Context, id string) (int64, error)
	// Close releases the connection to the backend.
	Close(ctx context.Context) error
}

// IsValidID reports whether id has the format of a contact id.
func IsValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

// NewID returns a fresh contact id.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// normalizeID returns id in the lowercase hex form in which ids are stored. Hex digits are
// accepted in either case.
func normalizeID(id string) string {
	return strings.ToLower(id)
}
