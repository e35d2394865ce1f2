package service

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"gitlab.com/dirk.krummacker/contacts-api/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"gitlab.com/dirk.krummacker/contacts-api/internal/store"
	"gitlab.com/dirk.krummacker/contacts-api/internal/validation"
)

// Service serves the contacts REST API on top of a store. The store is shared by all requests and
// never replaced after construction.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates a service that reads and writes contacts through the specified store. The
// store can be a real database for production use or an in-memory store within tests.
func NewService(s store.Store, log zerolog.Logger) *Service {
	return &Service{store: s, log: log}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. Every endpoint
// runs its validation middleware before the handler. If requestLogging is false, no access log
// entries are written.
func (s *Service) SetupHttpRouter(requestLogging bool) *gin.Engine {
	router := gin.New()
	if requestLogging {
		router.Use(logger.GinLogger(s.log))
	} else {
		s.log.Info().Msg("Turning off HTTP request logging.")
	}
	router.Use(logger.GinRecovery(s.log))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})
	router.GET("/contacts", validation.ValidateListQuery, s.findContacts)
	router.POST("/contacts", validation.ValidateCreateContact, s.createContact)
	router.GET("/contacts/:id", validation.ValidateContactID, s.findContactByID)
	router.PUT("/contacts/:id", validation.ValidateUpdateContact, s.updateContactByID)
	router.DELETE("/contacts/:id", validation.ValidateContactID, s.deleteContactByID)
	return router
}

// findContacts responds with the list of all contacts as JSON. The URL parameters 'page' and
// 'limit' are validated but do not restrict the result.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?page=2&limit=20"
func (s *Service) findContacts(c *gin.Context) {
	contacts, err := s.store.FindAll(c.Request.Context())
	if err != nil {
		s.storeFailure(c, err, "Error retrieving contacts")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// findContactByID locates the contact whose ID value matches the id parameter of the request URL,
// then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/65f1c0a1b2c3d4e5f6a7b8c9
func (s *Service) findContactByID(c *gin.Context) {
	contact, err := s.store.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Contact not found"})
		return
	}
	if err != nil {
		s.storeFailure(c, err, "Error retrieving contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// createContact inserts the contact specified in the request's JSON into the database. It responds
// with the store's acknowledgment, which carries the newly assigned id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"firstName": "Ann", "lastName": "Lee", "email": "ann@example.com", "favoriteColor": "blue", "birthday": "01/15/1990"}'
func (s *Service) createContact(c *gin.Context) {
	newContact, ok := bindContact(c)
	if !ok {
		return
	}
	result, err := s.store.InsertOne(c.Request.Context(), newContact)
	if err != nil {
		s.storeFailure(c, err, "Error creating contact")
		return
	}
	if !result.Acknowledged {
		s.log.Error().Str("id", result.InsertedId).Msg("insert was not acknowledged")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create contact"})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// updateContactByID replaces all fields of the contact whose ID value matches the id parameter of
// the request URL with the values specified in the JSON. It responds with an empty body.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/65f1c0a1b2c3d4e5f6a7b8c9 --request "PUT" --include --header "Content-Type: application/json" --data '{"firstName": "Ann", "lastName": "Lee", "email": "ann@example.com", "favoriteColor": "green", "birthday": "01/15/1990"}'
func (s *Service) updateContactByID(c *gin.Context) {
	id := c.Param("id")
	submitted, ok := bindContact(c)
	if !ok {
		return
	}
	result, err := s.store.ReplaceOne(c.Request.Context(), id, submitted)
	if err != nil {
		s.storeFailure(c, err, "Error updating contact")
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Contact not found"})
		return
	}
	if result.ModifiedCount == 0 {
		s.log.Error().Str("id", id).Msg("replacement matched the contact but modified nothing")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update contact"})
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the request URL
// from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/65f1c0a1b2c3d4e5f6a7b8c9 --request "DELETE"
func (s *Service) deleteContactByID(c *gin.Context) {
	deleted, err := s.store.DeleteOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeFailure(c, err, "Error deleting contact")
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Contact not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}

// bindContact reads the five contact fields from the request body that the validation middleware
// has already checked and cached.
func bindContact(c *gin.Context) (model.ContactInput, bool) {
	var contact model.ContactInput
	if err := c.ShouldBindBodyWith(&contact, binding.JSON); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return model.ContactInput{}, false
	}
	return contact, true
}

// storeFailure logs a failed store call and responds with 500 and the error text.
func (s *Service) storeFailure(c *gin.Context, err error, message string) {
	s.log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("id", c.Param("id")).
		Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"message": message, "error": err.Error()})
}
