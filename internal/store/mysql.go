package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
)

// MySQL stores contacts in the contacts table of a MySQL database. The ids are generated by the
// service in ObjectId format so that clients cannot tell the backends apart.
type MySQL struct {
	// db is a handle to the database.
	db *sqlx.DB

	// insert is a prepared statement for creating a contact on the database.
	insert *sqlx.NamedStmt

	// selectAll is a prepared statement for selecting all contacts.
	selectAll *sqlx.Stmt

	// selectWhereId is a prepared statement for selecting contacts with a given id.
	selectWhereId *sqlx.Stmt

	// countWhereId is a prepared statement for counting contacts with a given id.
	countWhereId *sqlx.Stmt

	// replaceWhereId is a prepared statement for overwriting a contact with a given id.
	replaceWhereId *sqlx.NamedStmt

	// deleteWhereId is a prepared statement for deleting a contact with a given id.
	deleteWhereId *sqlx.Stmt
}

// replacement binds the named parameters of the replace statement.
type replacement struct {
	model.ContactInput
	Id string `db:"id"`
}

// MySQLDSN builds the data source name for the configured database.
func MySQLDSN(cfg config.StoreConfig) string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.MySQLUser
	dsn.Passwd = cfg.MySQLPassword
	dsn.Net = "tcp"
	dsn.Addr = cfg.MySQLHost
	dsn.DBName = cfg.Database
	dsn.Timeout = cfg.ConnectTimeout
	return dsn.FormatDSN()
}

// CreateDatabase opens the MySQL database described by the configuration and checks that it is
// reachable.
func CreateDatabase(ctx context.Context, cfg config.StoreConfig) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", MySQLDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("could not open mysql database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("could not ping mysql database: %w", err)
	}
	return sqlDB, nil
}

// NewMySQL wraps the specified sql database and prepares all statements. The database argument can
// be a real database for production use or a mock database within unit tests.
func NewMySQL(sqlDB *sql.DB) (*MySQL, error) {
	var err error
	m := &MySQL{db: sqlx.NewDb(sqlDB, "mysql")}

	// Prepared statements offer a significant speed increase if executed many times.
	m.insert, err = m.db.PrepareNamed(`
		INSERT INTO contacts (id, firstname, lastname, email, favoritecolor, birthday)
		VALUES (:id, :firstname, :lastname, :email, :favoritecolor, :birthday)
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare insert: %w", err)
	}
	m.selectAll, err = m.db.Preparex(`
		SELECT * FROM contacts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare select: %w", err)
	}
	m.selectWhereId, err = m.db.Preparex(`
		SELECT * FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare select by id: %w", err)
	}
	m.countWhereId, err = m.db.Preparex(`
		SELECT COUNT(*) FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare count by id: %w", err)
	}
	m.replaceWhereId, err = m.db.PrepareNamed(`
		UPDATE contacts
		SET firstname = :firstname, lastname = :lastname, email = :email,
			favoritecolor = :favoritecolor, birthday = :birthday
		WHERE id = :id
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare replace: %w", err)
	}
	m.deleteWhereId, err = m.db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("could not prepare delete: %w", err)
	}
	return m, nil
}

func (m *MySQL) FindAll(ctx context.Context) ([]model.Contact, error) {
	contacts := []model.Contact{}
	if err := m.selectAll.SelectContext(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("could not select contacts: %w", err)
	}
	return contacts, nil
}

func (m *MySQL) FindByID(ctx context.Context, id string) (model.Contact, error) {
	id = normalizeID(id)
	var contacts []model.Contact
	if err := m.selectWhereId.SelectContext(ctx, &contacts, id); err != nil {
		return model.Contact{}, fmt.Errorf("could not select contact %s: %w", id, err)
	}
	if len(contacts) == 0 {
		return model.Contact{}, ErrNotFound
	}
	return contacts[0], nil
}

func (m *MySQL) InsertOne(ctx context.Context, contact model.ContactInput) (model.InsertResult, error) {
	newContact := contact.ToContact(NewID())
	result, err := m.insert.ExecContext(ctx, &newContact)
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("could not insert contact: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("could not read inserted rows: %w", err)
	}
	return model.InsertResult{Acknowledged: rowsAffected == 1, InsertedId: newContact.Id}, nil
}

// ReplaceOne overwrites the contact. MySQL only reports rows that actually changed, so a
// replacement that changes nothing is followed by a count to tell an unchanged contact from a
// missing one.
func (m *MySQL) ReplaceOne(ctx context.Context, id string, contact model.ContactInput) (model.ReplaceResult, error) {
	id = normalizeID(id)
	result, err := m.replaceWhereId.ExecContext(ctx, replacement{ContactInput: contact, Id: id})
	if err != nil {
		return model.ReplaceResult{}, fmt.Errorf("could not replace contact %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.ReplaceResult{}, fmt.Errorf("could not read replaced rows: %w", err)
	}
	if rowsAffected > 0 {
		return model.ReplaceResult{MatchedCount: rowsAffected, ModifiedCount: rowsAffected}, nil
	}
	var matched int64
	if err := m.countWhereId.GetContext(ctx, &matched, id); err != nil {
		return model.ReplaceResult{}, fmt.Errorf("could not count contact %s: %w", id, err)
	}
	return model.ReplaceResult{MatchedCount: matched}, nil
}

func (m *MySQL) DeleteOne(ctx context.Context, id string) (int64, error) {
	id = normalizeID(id)
	result, err := m.deleteWhereId.ExecContext(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("could not delete contact %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not read deleted rows: %w", err)
	}
	return rowsAffected, nil
}

func (m *MySQL) Close(context.Context) error {
	return m.db.Close()
}
