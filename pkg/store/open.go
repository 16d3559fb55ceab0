package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Options struct {
	Driver        string
	DSN           string
	MongoURI      string
	MongoDatabase string
	ConnTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	// Tracing wraps SQL connections with X-Ray subsegments.
	Tracing bool
}

func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.ConnTimeout <= 0 {
		opts.ConnTimeout = 10 * time.Second
	}
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite, DriverPostgres:
		db, err := openSQL(ctx, opts)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(ctx, db)
	case DriverMongo:
		return openMongo(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown store driver: %q", opts.Driver)
	}
}

func openSQL(ctx context.Context, opts Options) (*sqlx.DB, error) {
	var (
		raw *sql.DB
		err error
	)
	if opts.Tracing {
		raw, err = xray.SQLContext(opts.Driver, opts.DSN)
	} else {
		raw, err = sql.Open(opts.Driver, opts.DSN)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", opts.Driver, err)
	}

	db := sqlx.NewDb(raw, opts.Driver)
	if opts.Driver == DriverSQLite {
		// a single connection keeps :memory: databases shared and serializes writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", opts.Driver, err)
	}
	return db, nil
}

func openMongo(ctx context.Context, opts Options) (*MongoStore, error) {
	connCtx, cancel := context.WithTimeout(ctx, opts.ConnTimeout)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(opts.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return NewMongoStore(client, opts.MongoDatabase, opts.ReadTimeout, opts.WriteTimeout), nil
}
