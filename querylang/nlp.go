package querylang

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"go-spotscout/types"
)

// languageClient is a singleton language client instance.
var (
	languageClient *language.Client
	clientOnce     sync.Once
	clientErr      error
)

// InitLanguageClient initializes and returns a language client, or an error
// when the credentials are not configured. Callers treat the error as "skip
// the NLP refinement".
func InitLanguageClient() (*language.Client, error) {
	clientOnce.Do(func() {
		encodedCreds := os.Getenv("NATURAL_LANGUAGE_CREDENTIALS")
		if encodedCreds == "" {
			clientErr = fmt.Errorf("NATURAL_LANGUAGE_CREDENTIALS environment variable not set")
			return
		}
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			clientErr = fmt.Errorf("failed to decode Natural Language credentials: %w", err)
			return
		}
		opt := option.WithCredentialsJSON(creds)
		languageClient, clientErr = language.NewClient(context.Background(), opt)
	})
	return languageClient, clientErr
}

func CloseLanguageClient() {
	if languageClient != nil {
		languageClient.Close()
	}
}

// ExtractEntityTerms sends the query to the Cloud Natural Language API and
// returns named-entity texts as extra match terms. Any failure yields no
// extra terms, never an error the pipeline has to handle.
func ExtractEntityTerms(ctx context.Context, client *language.Client, query string) []string {
	if client == nil || query == "" {
		return nil
	}

	req := &languagepb.AnalyzeEntitiesRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{
				Content: query,
			},
			Type: languagepb.Document_PLAIN_TEXT,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}

	resp, err := client.AnalyzeEntities(ctx, req)
	if err != nil {
		log.Printf("Entity extraction failed for query %q: %v", query, err)
		return nil
	}

	var terms []string
	for _, entity := range resp.Entities {
		name := strings.ToLower(strings.TrimSpace(entity.Name))
		if name != "" {
			terms = append(terms, name)
		}
	}
	return terms
}

// ClassifyIntent asks the OpenAI model which discovery intent a free-text
// query expresses. Returns IntentAny with zero confidence on any failure or
// when no API key is configured.
func ClassifyIntent(ctx context.Context, query string) (types.DiscoveryIntent, float64) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" || query == "" {
		return types.IntentAny, 0
	}

	client := openai.NewClient(apiKey)
	resp, err := client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT3Dot5Turbo,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleSystem,
					Content: "You classify place-discovery queries. Answer with exactly one of: " +
						"deep-work, date-night, catch-up, quick-coffee, aesthetic, any.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: "Classify this query: " + query,
				},
			},
			MaxTokens: 10,
		},
	)
	if err != nil {
		log.Printf("Intent classification failed for query %q: %v", query, err)
		return types.IntentAny, 0
	}

	return classifiedIntent(resp.Choices)
}

// classifiedIntent maps the model's answer onto a known intent label. An
// empty choice list or an off-label answer degrades to IntentAny.
func classifiedIntent(choices []openai.ChatCompletionChoice) (types.DiscoveryIntent, float64) {
	if len(choices) == 0 {
		return types.IntentAny, 0
	}

	answer := strings.ToLower(strings.TrimSpace(choices[0].Message.Content))
	switch types.DiscoveryIntent(answer) {
	case types.IntentDeepWork, types.IntentDateNight, types.IntentCatchUp,
		types.IntentQuickCoffee, types.IntentAesthetic:
		return types.DiscoveryIntent(answer), 0.85
	}
	return types.IntentAny, 0
}

// Refine augments a lexical parse with the NLP assists when they are
// configured. Both assists degrade to no-ops.
func Refine(ctx context.Context, parsed ParsedQuery) ParsedQuery {
	if client, err := InitLanguageClient(); err == nil {
		for _, term := range ExtractEntityTerms(ctx, client, parsed.Raw) {
			if !containsTerm(parsed.Terms, term) {
				parsed.Terms = append(parsed.Terms, term)
			}
		}
	}

	if parsed.Intent == types.IntentAny {
		if intent, conf := ClassifyIntent(ctx, parsed.Raw); intent != types.IntentAny {
			parsed.Intent = intent
			parsed.IntentConfidence = conf
		}
	}
	return parsed
}

func containsTerm(terms []string, term string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}
	return false
}
