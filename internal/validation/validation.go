// Package validation contains the gin middleware that checks the shape of incoming contact
// requests before they reach the handlers. A failing check aborts the request with 400 Bad Request
// and a JSON body describing the problem; a passing check calls the next handler without side
// effects. None of the checks touches the store.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"gitlab.com/dirk.krummacker/contacts-api/internal/store"
)

// invalidIDMessage is the response message for ids that are not 24 hex characters.
const invalidIDMessage = "Invalid contact ID format. Must be a valid MongoDB ObjectId (24 hex characters)."

// emailPattern accepts word characters with optional dots or dashes on both sides of the @, ending
// in a two or three character top level domain.
var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// birthdayPattern matches MM/DD/YYYY with month 01-12 and day 01-31.
var birthdayPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(0[1-9]|[12][0-9]|3[01])/(\d{4})$`)

// numberPattern matches the strings that read as a number in the URL: decimal literals with an
// optional sign and exponent, Infinity, and unsigned hexadecimal, octal or binary integers.
var numberPattern = regexp.MustCompile(`^(?:[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)|0[xX][0-9a-fA-F]+|0[oO][0-7]+|0[bB][01]+)$`)

// maxBodyBytes limits the size of contact request bodies.
const maxBodyBytes = 100 << 10

var validate = validator.New()

// listQueryParams are the URL parameters of the list request that must be numeric.
var listQueryParams = []string{"page", "limit"}

// fieldRule is the check specific to one contact field. It runs only after the field is known to
// be a non-blank string and returns an error message, or the empty string if the value is fine.
type fieldRule struct {
	field string
	check func(value string) string
}

// fieldRules are applied in order, so the errors of a request are always listed in the same order.
var fieldRules = []fieldRule{
	{"firstName", maxLength("firstName", 50)},
	{"lastName", maxLength("lastName", 50)},
	{"email", checkEmail},
	{"favoriteColor", maxLength("favoriteColor", 30)},
	{"birthday", checkBirthday},
}

// ValidateListQuery checks that the 'page' and 'limit' URL parameters are numbers, if present.
func ValidateListQuery(c *gin.Context) {
	for _, param := range listQueryParams {
		if value := c.Query(param); value != "" && !isNumeric(value) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": fmt.Sprintf("Invalid query parameter: %s must be a number", param),
			})
			return
		}
	}
	c.Next()
}

// ValidateContactID checks that the id path parameter is present and has the format of a contact
// id. It guards the requests for finding and deleting a single contact.
func ValidateContactID(c *gin.Context) {
	if !checkContactID(c, "Contact ID is required") {
		return
	}
	c.Next()
}

// ValidateCreateContact checks the body of a request for creating a contact. All problems of the
// body are collected and reported together.
func ValidateCreateContact(c *gin.Context) {
	body, ok := bindBody(c, "Request body is required")
	if !ok {
		return
	}
	if errs := checkContact(body); len(errs) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":      "Validation failed for POST /contacts",
			"errors":       errs,
			"receivedData": body,
		})
		return
	}
	c.Next()
}

// ValidateUpdateContact checks the id path parameter and then the body of a request for replacing
// a contact. The body must carry all fields, exactly as for creation.
func ValidateUpdateContact(c *gin.Context) {
	if !checkContactID(c, "Contact ID is required in URL path") {
		return
	}
	body, ok := bindBody(c, "Request body is required for update")
	if !ok {
		return
	}
	if errs := checkContact(body); len(errs) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":      "Validation failed for PUT /contacts/:id",
			"errors":       errs,
			"contactId":    c.Param("id"),
			"receivedData": body,
		})
		return
	}
	c.Next()
}

// checkContactID aborts the request and returns false if the id path parameter is missing or
// malformed.
func checkContactID(c *gin.Context, requiredMessage string) bool {
	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": requiredMessage})
		return false
	}
	if !store.IsValidID(id) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":    invalidIDMessage,
			"providedId": id,
		})
		return false
	}
	return true
}

// bindBody decodes the request body into a generic JSON object. The raw body stays cached in the
// context so that the handler can bind it again. The request is aborted if the body is missing,
// empty, or not a JSON object.
func bindBody(c *gin.Context, requiredMessage string) (map[string]interface{}, bool) {
	if c.Request.Body == nil {
		c.Request.Body = http.NoBody
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var body map[string]interface{}
	err := c.ShouldBindBodyWith(&body, binding.JSON)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "request body too large"})
		return nil, false
	}
	if err != nil && !isEmptyBody(c) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return nil, false
	}
	if len(body) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":        requiredMessage,
			"requiredFields": model.AllowedFields,
		})
		return nil, false
	}
	return body, true
}

// isEmptyBody reports whether the cached request body contains nothing but whitespace.
func isEmptyBody(c *gin.Context) bool {
	raw, _ := c.Get(gin.BodyBytesKey)
	bodyBytes, _ := raw.([]byte)
	return len(bytes.TrimSpace(bodyBytes)) == 0
}

// checkContact returns the list of everything that is wrong with a contact body.
func checkContact(body map[string]interface{}) []string {
	var errs []string
	for _, rule := range fieldRules {
		value, msg := stringField(body, rule.field)
		if msg == "" {
			msg = rule.check(value)
		}
		if msg != "" {
			errs = append(errs, msg)
		}
	}

	var unexpected []string
	for field := range body {
		if !slices.Contains(model.AllowedFields, field) {
			unexpected = append(unexpected, field)
		}
	}
	if len(unexpected) > 0 {
		slices.Sort(unexpected)
		errs = append(errs, fmt.Sprintf("Unexpected fields: %s. Only %s are allowed.",
			strings.Join(unexpected, ", "), strings.Join(model.AllowedFields, ", ")))
	}
	return errs
}

// stringField applies the checks that all contact fields share. Missing values and JSON values
// that count as false (null, false, 0, "") are reported as missing.
func stringField(body map[string]interface{}, field string) (string, string) {
	raw, found := body[field]
	if !found || isFalsy(raw) {
		return "", field + " is required"
	}
	value, ok := raw.(string)
	if !ok {
		return "", field + " must be a string"
	}
	if strings.TrimSpace(value) == "" {
		return "", field + " cannot be empty or only whitespace"
	}
	return value, ""
}

func isFalsy(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case float64:
		return v == 0
	default:
		return false
	}
}

// maxLength returns a rule that rejects values longer than limit characters.
func maxLength(field string, limit int) func(string) string {
	tag := fmt.Sprintf("max=%d", limit)
	return func(value string) string {
		if validate.Var(value, tag) != nil {
			return fmt.Sprintf("%s cannot exceed %d characters", field, limit)
		}
		return ""
	}
}

func checkEmail(value string) string {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return "email must be a valid email address (e.g., user@example.com)"
	}
	return ""
}

// checkBirthday accepts MM/DD/YYYY dates that exist in the calendar.
func checkBirthday(value string) string {
	trimmed := strings.TrimSpace(value)
	if !birthdayPattern.MatchString(trimmed) {
		return "birthday must be in MM/DD/YYYY format (e.g., 01/15/1990)"
	}
	if validate.Var(trimmed, "datetime=01/02/2006") != nil {
		return "birthday must be a valid calendar date"
	}
	return ""
}

// isNumeric reports whether a URL parameter reads as a number. Surrounding whitespace is ignored
// and a blank value counts as zero.
func isNumeric(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || numberPattern.MatchString(value)
}
