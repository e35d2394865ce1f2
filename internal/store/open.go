package store

import (
	"context"
	"fmt"

	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
)

// Open connects to the store selected by the configuration. It is called once at boot; the
// returned store is shared by all requests.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return ConnectMongo(ctx, cfg)
	case config.DriverMySQL:
		sqlDB, err := CreateDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		m, err := NewMySQL(sqlDB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		return m, nil
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
