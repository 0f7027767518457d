package db

import (
	"context"
	"time"

	"github.com/justinong00/mern-dormguru-sub000/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var mongoClient *mongo.Client
var mongoDB *mongo.Database

func InitMongo(cfg *config.Config, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("mongo connect failed", zap.Error(err))
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("mongo ping failed", zap.Error(err))
	}

	mongoClient = client
	mongoDB = client.Database(cfg.MongoDB)
	log.Info("mongo connected", zap.String("db", cfg.MongoDB))
}

func DB() *mongo.Database {
	return mongoDB
}

func Client() *mongo.Client {
	return mongoClient
}

func Disconnect(ctx context.Context) error {
	if mongoClient == nil {
		return nil
	}
	return mongoClient.Disconnect(ctx)
}
