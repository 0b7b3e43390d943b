package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"MedlyChatbot/pkg/log"
	"MedlyChatbot/pkg/nlp"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chat:ctx:"

type IRedis interface {
	Get(ctx context.Context, sessionID string) (*nlp.ProductRef, error)
	Set(ctx context.Context, sessionID string, product nlp.ProductRef) error
	Close() error
}

type redisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ttl time.Duration) (IRedis, error) {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	log.Info(log.Fields{"address": redisAddr}, "Connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error(log.Fields{
			"address": redisAddr,
			"error":   err.Error(),
		}, "Failed to connect to Redis")
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	log.Info(log.Fields{"address": redisAddr}, "Successfully connected to Redis")

	return newRedisClient(client, ttl), nil
}

func newRedisClient(client *redis.Client, ttl time.Duration) *redisClient {
	return &redisClient{client: client, ttl: ttl}
}

func Key(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *redisClient) Set(ctx context.Context, sessionID string, product nlp.ProductRef) error {
	payload, err := jsoniter.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}

	if err := r.client.Set(ctx, Key(sessionID), payload, r.ttl).Err(); err != nil {
		log.Error(log.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}, "Error setting conversation context")
		return err
	}

	log.Debug(log.Fields{
		"session_id": sessionID,
		"product":    product.ID,
	}, "Stored conversation context")
	return nil
}

// Get returns nil without error when the session has no stored context.
func (r *redisClient) Get(ctx context.Context, sessionID string) (*nlp.ProductRef, error) {
	val, err := r.client.Get(ctx, Key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		log.Error(log.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}, "Error getting conversation context")
		return nil, err
	}

	var product nlp.ProductRef
	if err := jsoniter.Unmarshal(val, &product); err != nil {
		log.Warn(log.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}, "Stored conversation context is unreadable")
		return nil, fmt.Errorf("decode context: %w", err)
	}
	return &product, nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
