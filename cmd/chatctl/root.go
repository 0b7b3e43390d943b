package main

import (
	"context"
	"fmt"
	"time"

	"MedlyChatbot/internal/config"
	"MedlyChatbot/pkg/knowledge"
	"MedlyChatbot/pkg/log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile       string
	knowledgeFile string
)

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Offline tools for the Medly support chatbot",
	Long: `chatctl runs the intent matcher against the configured knowledge table
without starting the HTTP server. Use it to try phrasings and to validate a
knowledge file before deploying it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load if present")
	rootCmd.PersistentFlags().StringVarP(&knowledgeFile, "knowledge", "k", "", "YAML knowledge file (overrides KNOWLEDGE_SOURCE)")
}

// loadTable resolves the knowledge table the same way the server does.
func loadTable(ctx context.Context) (*knowledge.Table, config.Env, error) {
	_ = godotenv.Load(envFile)

	env, err := config.LoadEnv()
	if err != nil {
		return nil, config.Env{}, fmt.Errorf("load config: %w", err)
	}

	if knowledgeFile != "" {
		env.KnowledgeSource = config.KnowledgeFile
		env.KnowledgeFile = knowledgeFile
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	table, err := config.LoadKnowledge(ctx, env, log.NewLogger())
	if err != nil {
		return nil, config.Env{}, err
	}
	return table, env, nil
}
