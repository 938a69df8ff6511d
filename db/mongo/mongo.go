package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Ctx      context.Context
	Cancel   context.CancelFunc
	URL      string
	Name     string
}

func NewMongoDB(url, name string) *MongoDB {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	return &MongoDB{
		Ctx:    ctx,
		Cancel: cancel,
		URL:    url,
		Name:   name,
	}
}

// Connect opens the client with the books codec registry, so amounts are
// stored as exact decimal strings.
func (m *MongoDB) Connect() error {
	opts := options.Client().ApplyURI(m.URL).SetRegistry(Registry())
	client, err := mongo.Connect(m.Ctx, opts)
	if err != nil {
		return err
	}
	m.Client = client
	m.Database = client.Database(m.Name)
	return m.Client.Ping(m.Ctx, nil)
}

func (m *MongoDB) Disconnect() error {
	defer m.Cancel()
	if m.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

func (m *MongoDB) GetContext() context.Context {
	return m.Ctx
}
