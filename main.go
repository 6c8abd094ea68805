package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cherry-ai/application"
	"cherry-ai/domain"
	"cherry-ai/infrastructure"
	"cherry-ai/infrastructure/config"
	"cherry-ai/infrastructure/embedding"
	"cherry-ai/infrastructure/server"
	"cherry-ai/infrastructure/splitter"
	"cherry-ai/infrastructure/vectorstore"
)

// main is the entry point of the cherry-ai query server.
// It loads configuration, builds the completion, embedding, vector store and
// web search clients, optionally seeds the knowledge base, and serves the
// HTTP API until interrupted.
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	completion, err := newCompletionClient(cfg.LLM)
	if err != nil {
		return err
	}

	embeddingClient, err := embedding.NewOpenAIEmbeddingClient(cfg.Embedder)
	if err != nil {
		return err
	}

	vectorStore, closeStore, err := newVectorStore(ctx, cfg.VectorStore)
	if err != nil {
		return err
	}
	defer closeStore()

	var webSearcher domain.WebSearcher
	if cfg.Search.Enabled {
		braveClient, err := infrastructure.NewBraveClient(cfg.Search)
		if err != nil {
			log.Printf("Web search disabled: %v\n", err)
		} else {
			webSearcher = braveClient
		}
	}

	textSplitter := splitter.NewRecursiveSplitter(cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap)

	if cfg.KnowledgeBase.Dir != "" {
		indexer := application.NewIndexingService(textSplitter, embeddingClient, vectorStore)
		if _, err := indexer.IndexDirectory(ctx, cfg.KnowledgeBase.Dir); err != nil {
			return err
		}
	}

	assistant := domain.NewAssistant(completion, embeddingClient, vectorStore, textSplitter, webSearcher, domain.AssistantOptions{
		TopK:             cfg.Retrieval.TopK,
		SearchLimit:      cfg.Search.Limit,
		LinkLimit:        cfg.Retrieval.LinkLimit,
		MaxContextLength: cfg.Retrieval.MaxContextLength,
	})

	chatbotService := application.NewChatbotService(assistant)

	return server.New(cfg.Server, chatbotService).Run(ctx)
}

func newCompletionClient(cfg config.LLMConfig) (domain.CompletionClient, error) {
	log.Printf("Using %s model %s\n", cfg.Provider, cfg.Model)
	if cfg.Provider == config.ProviderAnthropic {
		return infrastructure.NewAnthropicClient(cfg)
	}
	return infrastructure.NewOpenAIChatClient(cfg, "")
}

func newVectorStore(ctx context.Context, cfg config.VectorStoreConfig) (domain.VectorStore, func(), error) {
	if cfg.Type == config.VectorStoreQdrant {
		client, err := vectorstore.NewQdrantClient(ctx, cfg.Qdrant)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	}
	return vectorstore.NewMemoryStore(), func() {}, nil
}
