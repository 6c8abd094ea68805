package vectorstore

import (
	"context"
	"fmt"
	"log"

	"cherry-ai/domain"
	"cherry-ai/infrastructure/config"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"
)

const payloadContent = "content"

// QdrantClient implements the domain.VectorStore interface using Qdrant.
// Unlike MemoryStore, its contents survive a restart of this process.
type QdrantClient struct {
	client         qdrant.PointsClient
	collectionName string
	conn           *grpc.ClientConn
}

// NewQdrantClient connects to Qdrant over gRPC and makes sure the configured
// collection exists.
func NewQdrantClient(ctx context.Context, cfg config.QdrantConfig) (*QdrantClient, error) {
	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("could not connect to Qdrant: %w", err)
	}

	client := &QdrantClient{
		client:         qdrant.NewPointsClient(conn),
		collectionName: cfg.Collection,
		conn:           conn,
	}

	err = client.ensureCollectionExists(ctx, qdrant.NewCollectionsClient(conn), cfg.VectorSize)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ensure collection exists: %w", err)
	}

	return client, nil
}

// Close releases the gRPC connection.
func (c *QdrantClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// ensureCollectionExists checks if the collection exists and creates it if it doesn't.
func (c *QdrantClient) ensureCollectionExists(ctx context.Context, collectionsClient qdrant.CollectionsClient, vectorSize uint64) error {
	_, err := collectionsClient.Get(ctx, &qdrant.GetCollectionInfoRequest{
		CollectionName: c.collectionName,
	})
	if err == nil {
		return nil
	}

	log.Printf("Collection %s does not exist, creating...\n", c.collectionName)
	_, err = collectionsClient.Create(ctx, &qdrant.CreateCollection{
		CollectionName: c.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("Collection %s created successfully\n", c.collectionName)
	return nil
}

// toPayload converts document content and metadata to a Qdrant payload.
func toPayload(d domain.Document) map[string]*qdrant.Value {
	payload := make(map[string]*qdrant.Value, len(d.Metadata)+1)
	for k, v := range d.Metadata {
		payload[k] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: v}}
	}
	payload[payloadContent] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: d.Content}}
	return payload
}

// Upsert adds or updates documents in the Qdrant collection.
func (c *QdrantClient) Upsert(ctx context.Context, docs []domain.Document) error {
	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, d := range docs {
		if d.Embedding == nil {
			continue
		}

		pointID := d.ID
		if pointID == "" {
			pointID = uuid.New().String()
		}

		points = append(points, &qdrant.PointStruct{
			Id:      &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: pointID}},
			Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: d.Embedding}}},
			Payload: toPayload(d),
		})
	}

	if len(points) == 0 {
		return nil
	}

	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Points:         points,
		Wait:           proto.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points to Qdrant: %w", err)
	}

	return nil
}

// Query searches for documents similar to the given embedding.
func (c *QdrantClient) Query(ctx context.Context, embedding domain.Embedding, k int) ([]domain.Document, error) {
	searchResult, err := c.client.Search(ctx, &qdrant.SearchPoints{
		CollectionName: c.collectionName,
		Vector:         embedding,
		Limit:          uint64(k),
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search points in Qdrant: %w", err)
	}

	docs := make([]domain.Document, 0, len(searchResult.GetResult()))
	for _, hit := range searchResult.GetResult() {
		payload := hit.GetPayload()
		if payload == nil {
			continue
		}

		metadata := make(map[string]string)
		for key, val := range payload {
			if key == payloadContent {
				continue
			}
			if s := val.GetStringValue(); s != "" {
				metadata[key] = s
			}
		}

		docs = append(docs, domain.Document{
			ID:       hit.GetId().GetUuid(),
			Content:  payload[payloadContent].GetStringValue(),
			Metadata: metadata,
		})
	}

	return docs, nil
}
