package main

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"MedlyChatbot/internal/config"
	"MedlyChatbot/pkg/fallback"
	"MedlyChatbot/pkg/nlp"

	"github.com/spf13/cobra"
)

var (
	askSeed    int64
	askVerbose bool
)

var askCmd = &cobra.Command{
	Use:   "ask <message>...",
	Short: "Answer one or more messages as a single conversation",
	Long: `Each argument is one user message. Messages share conversation context,
so "tell me about classic" followed by "what is its price" resolves the
follow-up against the Classic bottle.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int64Var(&askSeed, "seed", 0, "seed for response variant selection (0 picks the first variant)")
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false, "print per-intent scores")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	table, env, err := loadTable(cmd.Context())
	if err != nil {
		return err
	}

	matcher, err := table.Matcher(config.MatcherConfig(env))
	if err != nil {
		return fmt.Errorf("compile knowledge table: %w", err)
	}

	var rng *rand.Rand
	if askSeed != 0 {
		rng = rand.New(rand.NewSource(askSeed))
	}

	out := cmd.OutOrStdout()
	var last *nlp.ProductRef

	for _, message := range args {
		fmt.Fprintf(out, "> %s\n", message)

		if askVerbose {
			printScores(cmd, matcher.Score(message))
		}

		res, err := matcher.Match(message, last, rng)
		if err != nil {
			fmt.Fprintf(out, "[fallback] %s\n\n", fallback.Reply(message))
			continue
		}

		if res.Remember != nil {
			product := *res.Remember
			last = &product
		}

		fmt.Fprintf(out, "[%s %s score=%d] %s\n", res.Source, res.Intent, res.Score, res.Text)
		if res.Card != nil {
			fmt.Fprintf(out, "  card: %s %s %s\n", res.Card.Name, res.Card.Price, res.Card.Link)
		}
		for _, p := range res.Carousel {
			fmt.Fprintf(out, "  - %s %s\n", p.Name, p.Price)
		}
		fmt.Fprintln(out)
	}

	return nil
}

func printScores(cmd *cobra.Command, scores map[string]int) {
	var parts []string
	for intent, score := range scores {
		if score > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", intent, score))
		}
	}
	sort.Strings(parts)
	if len(parts) == 0 {
		parts = append(parts, "none")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  scores: %s\n", strings.Join(parts, " "))
}
