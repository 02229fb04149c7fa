package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const defaultTimeout = 10 * time.Second

// ErrTransactionsUnsupported is returned by Connect when the server is a
// standalone mongod. Retention purges and permanent deletes run in
// transactions, which need a replica set member or a mongos router.
var ErrTransactionsUnsupported = errors.New("mongo: transactions require a replica set or mongos")

// Config holds the connection settings of the blog database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// topology is the part of the hello reply that tells a standalone server
// apart from a replica set or sharded cluster.
type topology struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

func (t topology) supportsTransactions() bool {
	return t.SetName != "" || t.Msg == "isdbgrid"
}

// Connect opens the client with majority read and write concerns, pings the
// server and refuses a deployment that cannot run transactions.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Majority())
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	var topo topology
	if err := client.Database("admin").RunCommand(connectCtx, bson.D{{Key: "hello", Value: 1}}).Decode(&topo); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo hello: %w", err)
	}
	if !topo.supportsTransactions() {
		_ = client.Disconnect(connectCtx)
		return nil, nil, ErrTransactionsUnsupported
	}

	return client, client.Database(cfg.Database), nil
}

// transactionOptions pins purges and permanent deletes to majority
// acknowledgement regardless of the URI settings.
func transactionOptions() *options.TransactionOptions {
	return options.Transaction().
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Snapshot())
}
