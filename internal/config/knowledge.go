package config

import (
	"context"
	"fmt"

	"MedlyChatbot/database/postgres"
	"MedlyChatbot/pkg/knowledge"
	"MedlyChatbot/pkg/nlp"
	"MedlyChatbot/pkg/s3"

	"github.com/sirupsen/logrus"
)

// LoadKnowledge builds the table named by env.KnowledgeSource. The table is
// loaded once; nothing edits it afterwards.
func LoadKnowledge(ctx context.Context, env Env, logger *logrus.Logger) (*knowledge.Table, error) {
	var (
		table *knowledge.Table
		err   error
	)

	switch env.KnowledgeSource {
	case KnowledgeBuiltin:
		table = knowledge.Default()
	case KnowledgeFile:
		table, err = knowledge.LoadFile(env.KnowledgeFile)
	case KnowledgeS3:
		var client s3.ItfS3
		client, err = s3.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		table, err = knowledge.LoadObject(ctx, client, env.KnowledgeS3Bucket, env.KnowledgeS3Key)
	case KnowledgePostgres:
		table, err = loadFromPostgres(ctx)
	default:
		return nil, fmt.Errorf("unknown knowledge source %q", env.KnowledgeSource)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s knowledge: %w", env.KnowledgeSource, err)
	}

	logger.WithFields(logrus.Fields{
		"source":   env.KnowledgeSource,
		"intents":  len(table.Entries),
		"products": len(table.Products),
	}).Info("Knowledge table loaded")

	return table, nil
}

func loadFromPostgres(ctx context.Context) (*knowledge.Table, error) {
	db, err := postgres.New()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := knowledge.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return knowledge.LoadPostgres(ctx, db)
}

func MatcherConfig(env Env) nlp.MatcherConfig {
	cfg := nlp.DefaultMatcherConfig()
	cfg.FuzzyThreshold = env.FuzzyThreshold
	cfg.MinScore = env.MinScore
	return cfg
}
