package mongodb

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Config struct {
	URI            string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database       string        `envconfig:"MONGO_DATABASE" default:"rue_lucas"`
	ConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
}

// InitFunc runs once against the database after the first successful connect.
type InitFunc func(ctx context.Context, db *mongo.Database) error

// Client owns a lazily connected mongo handle. A failed connect is not
// remembered: the next call tries again.
type Client struct {
	cfg  Config
	log  *zap.Logger
	init []InitFunc

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func New(cfg Config, log *zap.Logger, init ...InitFunc) *Client {
	return &Client{
		cfg:  cfg,
		log:  log.Named("mongodb"),
		init: init,
	}
}

func (c *Client) Database(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	serverAPIOptions := options.ServerAPI(options.ServerAPIVersion1)
	clientOptions := options.Client().
		ApplyURI(c.cfg.URI).
		SetServerAPIOptions(serverAPIOptions).
		SetServerSelectionTimeout(c.cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "mongo.Connect")
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo ping")
	}

	db := client.Database(c.cfg.Database)
	for _, fn := range c.init {
		if err = fn(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, errors.Wrap(err, "mongo init")
		}
	}
	c.client, c.db = client, db
	c.log.Info("mongodb connected", zap.String("database", c.cfg.Database))
	return db, nil
}

func (c *Client) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := c.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Connected reports whether a live handle is held.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client, c.db = nil, nil
	return err
}
