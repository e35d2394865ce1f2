//go:build integration

package integrationtest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"gitlab.com/dirk.krummacker/contacts-api/internal/service"
	"gitlab.com/dirk.krummacker/contacts-api/internal/store"
)

// The tests in this package run against the store configured through the CONTACTS_ environment
// variables, e.g.
// > CONTACTS_STORE_DRIVER=mysql CONTACTS_STORE_MYSQL_USER=dirk CONTACTS_STORE_MYSQL_PASSWORD=bullo92 go test -tags integration ./internal/integrationtest/

const julius = `{
	"firstName": "Julius",
	"lastName": "Cäsar",
	"email": "julius@example.com",
	"favoriteColor": "purple",
	"birthday": "07/12/1900"
}`

// setupRouter connects to the configured store and returns the router of a service on top of it.
func setupRouter(t *testing.T) *gin.Engine {
	cfg, err := config.Load()
	require.NoError(t, err)
	ctx := context.Background()
	contacts, err := store.Open(ctx, cfg.Store)
	require.NoError(t, err)
	t.Cleanup(func() { contacts.Close(ctx) })
	gin.SetMode(gin.TestMode)
	return service.NewService(contacts, zerolog.Nop()).SetupHttpRouter(false)
}

func runRequest(router *gin.Engine, method string, url string, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	router.ServeHTTP(recorder, request)
	return recorder
}

func createContact(t *testing.T, router *gin.Engine, body string) string {
	recorder := runRequest(router, "POST", "/contacts", body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var created model.InsertResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	require.True(t, created.Acknowledged)
	return created.InsertedId
}

// deleteContact removes a contact that a test has created.
func deleteContact(t *testing.T, router *gin.Engine, id string) {
	recorder := runRequest(router, "DELETE", "/contacts/"+id, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

// TestContactHappyPath tests a POST, GET, PUT, and DELETE with valid data.
func TestContactHappyPath(t *testing.T) {
	router := setupRouter(t)

	id := createContact(t, router, `{
		"firstName": "Erika",
		"lastName": "Mustermann",
		"email": "erika@example.com",
		"favoriteColor": "red",
		"birthday": "03/02/1969"
	}`)

	getRecorder := runRequest(router, "GET", "/contacts/"+id, "")
	assert.Equal(t, http.StatusOK, getRecorder.Code)
	var found model.Contact
	require.NoError(t, json.Unmarshal(getRecorder.Body.Bytes(), &found))
	assert.Equal(t, model.Contact{
		Id:            id,
		FirstName:     "Erika",
		LastName:      "Mustermann",
		Email:         "erika@example.com",
		FavoriteColor: "red",
		Birthday:      "03/02/1969",
	}, found)

	putRecorder := runRequest(router, "PUT", "/contacts/"+id, `{
		"firstName": "Rudi",
		"lastName": "Völler",
		"email": "rudi@example.com",
		"favoriteColor": "white",
		"birthday": "04/13/1960"
	}`)
	assert.Equal(t, http.StatusNoContent, putRecorder.Code)

	// a subsequent lookup returns the updated values
	getAgainRecorder := runRequest(router, "GET", "/contacts/"+id, "")
	assert.Equal(t, http.StatusOK, getAgainRecorder.Code)
	var updated model.Contact
	require.NoError(t, json.Unmarshal(getAgainRecorder.Body.Bytes(), &updated))
	assert.Equal(t, "Rudi", updated.FirstName)
	assert.Equal(t, "Völler", updated.LastName)
	assert.Equal(t, "rudi@example.com", updated.Email)
	assert.Equal(t, "white", updated.FavoriteColor)
	assert.Equal(t, "04/13/1960", updated.Birthday)

	deleteContact(t, router, id)

	// a final lookup and a second deletion correctly do not find it
	assert.Equal(t, http.StatusNotFound, runRequest(router, "GET", "/contacts/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, runRequest(router, "DELETE", "/contacts/"+id, "").Code)
}

// TestCreateContactInvalidBody tests a POST with different forms of invalid request body data.
func TestCreateContactInvalidBody(t *testing.T) {
	invalidRequestBodies := []string{
		"",
		"{}",
		"not JSON",
		`{
			"firstName": "Erika"
			"lastName": "Mustermann"
		}`, // commas missing
		`{"firstName": "Erika", "lastName": "Mustermann", "email": "erika", "favoriteColor": "red", "birthday": "03/02/1969"}`,
		`{"firstName": "Erika", "lastName": "Mustermann", "email": "erika@example.com", "favoriteColor": "red", "birthday": "02/30/1969"}`,
	}

	router := setupRouter(t)
	for _, body := range invalidRequestBodies {
		recorder := runRequest(router, "POST", "/contacts", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "request body: "+body)
	}
}

// TestUpdateContactInvalidId tests a PUT with a malformed and with an unknown id.
func TestUpdateContactInvalidId(t *testing.T) {
	router := setupRouter(t)

	assert.Equal(t, http.StatusBadRequest, runRequest(router, "PUT", "/contacts/invalid", julius).Code)
	assert.Equal(t, http.StatusNotFound, runRequest(router, "PUT", "/contacts/"+store.NewID(), julius).Code)
}

// TestUpdateContactMissingFields tests a PUT with only one field specified in the JSON. The
// contact must remain unchanged.
func TestUpdateContactMissingFields(t *testing.T) {
	router := setupRouter(t)
	id := createContact(t, router, julius)

	putRecorder := runRequest(router, "PUT", "/contacts/"+id, `{"firstName": "Rudi"}`)
	assert.Equal(t, http.StatusBadRequest, putRecorder.Code)

	var found model.Contact
	require.NoError(t, json.Unmarshal(runRequest(router, "GET", "/contacts/"+id, "").Body.Bytes(), &found))
	assert.Equal(t, "Julius", found.FirstName)

	deleteContact(t, router, id)
}

// TestFindAllContacts retrieves all contacts and verifies that a previously created contact is
// among them.
func TestFindAllContacts(t *testing.T) {
	router := setupRouter(t)
	id := createContact(t, router, julius)

	getRecorder := runRequest(router, "GET", "/contacts?page=1&limit=100", "")
	assert.Equal(t, http.StatusOK, getRecorder.Code)
	var contacts []model.Contact
	require.NoError(t, json.Unmarshal(getRecorder.Body.Bytes(), &contacts))
	var found bool
	for _, contact := range contacts {
		if contact.Id == id {
			assert.Equal(t, "Julius", contact.FirstName)
			assert.Equal(t, "Cäsar", contact.LastName)
			assert.Equal(t, "07/12/1900", contact.Birthday)
			found = true
		}
	}
	assert.True(t, found, "could not find contact")

	deleteContact(t, router, id)
}

// TestCreateContactPaddedValues verifies that values which are valid after trimming are stored and
// returned exactly as sent.
func TestCreateContactPaddedValues(t *testing.T) {
	router := setupRouter(t)
	email := strings.Repeat("a", 300) + "@example.com"
	id := createContact(t, router, `{
		"firstName": "Julius",
		"lastName": "Cäsar",
		"email": " `+email+` ",
		"favoriteColor": "purple",
		"birthday": "  07/12/1900  "
	}`)

	getRecorder := runRequest(router, "GET", "/contacts/"+id, "")
	assert.Equal(t, http.StatusOK, getRecorder.Code)
	var found model.Contact
	require.NoError(t, json.Unmarshal(getRecorder.Body.Bytes(), &found))
	assert.Equal(t, " "+email+" ", found.Email)
	assert.Equal(t, "  07/12/1900  ", found.Birthday)

	// uppercase hex digits address the same contact
	assert.Equal(t, http.StatusOK, runRequest(router, "GET", "/contacts/"+strings.ToUpper(id), "").Code)

	deleteContact(t, router, id)
}
