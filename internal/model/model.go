package model

// Contact is the data structure for a person that we know. The Id is assigned by the store when
// the contact is created and never changes afterwards.
type Contact struct {
	Id            string `json:"id"            db:"id"`
	FirstName     string `json:"firstName"     db:"firstname"`
	LastName      string `json:"lastName"      db:"lastname"`
	Email         string `json:"email"         db:"email"`
	FavoriteColor string `json:"favoriteColor" db:"favoritecolor"`
	Birthday      string `json:"birthday"      db:"birthday"`
}

// ContactInput holds the five writable fields of a contact as they arrive in a create or update
// request. Anything else in the request body is ignored when binding.
type ContactInput struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	FavoriteColor string `json:"favoriteColor"`
	Birthday      string `json:"birthday"`
}

// ToContact returns a contact carrying the input's fields and the given id.
func (in ContactInput) ToContact(id string) Contact {
	return Contact{
		Id:            id,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		FavoriteColor: in.FavoriteColor,
		Birthday:      in.Birthday,
	}
}

// InsertResult is the store's acknowledgment of a created contact.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedId   string `json:"insertedId"`
}

// ReplaceResult reports how many contacts matched the id of a replacement and how many of them
// were actually changed.
type ReplaceResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

// AllowedFields lists the contact properties a client may send, in the order they are reported.
var AllowedFields = []string{"firstName", "lastName", "email", "favoriteColor", "birthday"}
