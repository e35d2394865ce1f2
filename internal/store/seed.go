package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
)

// SampleContacts is the initial test data entered by Seed.
var SampleContacts = []model.ContactInput{
	{
		FirstName:     "Dirk",
		LastName:      "Krummacker",
		Email:         "dirk@example.com",
		FavoriteColor: "blue",
		Birthday:      "11/29/1974",
	},
	{
		FirstName:     "Pavla",
		LastName:      "Krummackerova",
		Email:         "pavla@example.com",
		FavoriteColor: "red",
		Birthday:      "01/27/1980",
	},
	{
		FirstName:     "Adam",
		LastName:      "Krummacker",
		Email:         "adam@example.com",
		FavoriteColor: "green",
		Birthday:      "03/31/2009",
	},
	{
		FirstName:     "David",
		LastName:      "Krummacker",
		Email:         "david@example.com",
		FavoriteColor: "yellow",
		Birthday:      "12/11/2011",
	},
}

// Seed enters the specified contacts into the store. A contact whose first and last name are
// already present in the store is not added again. Seed returns the number of added contacts.
func Seed(ctx context.Context, s Store, contacts []model.ContactInput) (int, error) {
	existing, err := s.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	present := make(map[string]bool, len(existing))
	for _, contact := range existing {
		present[contact.FirstName+" "+contact.LastName] = true
	}
	added := 0
	for _, contact := range contacts {
		name := contact.FirstName + " " + contact.LastName
		if present[name] {
			continue
		}
		result, err := s.InsertOne(ctx, contact)
		if err != nil {
			return added, err
		}
		if !result.Acknowledged {
			return added, fmt.Errorf("insert of %s was not acknowledged", name)
		}
		present[name] = true
		added++
	}
	return added, nil
}

// RunScript executes the SQL statements read from r one by one. A statement ends with the line
// that contains a semicolon. RunScript returns the number of executed statements.
func RunScript(ctx context.Context, db *sqlx.DB, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	executed := 0
	for scanner.Scan() {
		line := scanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			if _, err := db.ExecContext(ctx, builder.String()); err != nil {
				return executed, fmt.Errorf("could not execute statement %d: %w", executed+1, err)
			}
			executed++
			builder = strings.Builder{}
		}
	}
	if err := scanner.Err(); err != nil {
		return executed, fmt.Errorf("could not read script: %w", err)
	}
	return executed, nil
}
