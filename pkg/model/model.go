package model

// Contact is the data structure for a person that we know, as it is sent to and received from the
// contacts API. The Id is empty for contacts that have not been created yet.
type Contact struct {
	Id            string `json:"id,omitempty"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	FavoriteColor string `json:"favoriteColor"`
	Birthday      string `json:"birthday"`
}

// Created is the response body of a successful POST request.
type Created struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedId   string `json:"insertedId"`
}
