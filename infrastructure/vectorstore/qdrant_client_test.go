package vectorstore

import (
	"context"
	"errors"
	"testing"

	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"cherry-ai/domain"
)

// fakePoints implements the two PointsClient calls the store uses.
type fakePoints struct {
	qdrant.PointsClient
	upserted  *qdrant.UpsertPoints
	searched  *qdrant.SearchPoints
	searchRes *qdrant.SearchResponse
	err       error
}

func (f *fakePoints) Upsert(_ context.Context, in *qdrant.UpsertPoints, _ ...grpc.CallOption) (*qdrant.PointsOperationResponse, error) {
	f.upserted = in
	return &qdrant.PointsOperationResponse{}, f.err
}

func (f *fakePoints) Search(_ context.Context, in *qdrant.SearchPoints, _ ...grpc.CallOption) (*qdrant.SearchResponse, error) {
	f.searched = in
	if f.err != nil {
		return nil, f.err
	}
	return f.searchRes, nil
}

func TestQdrantClient_UpsertBuildsPoints(t *testing.T) {
	fake := &fakePoints{}
	c := &QdrantClient{client: fake, collectionName: "chat_history"}

	err := c.Upsert(context.Background(), []domain.Document{
		{ID: "7b0c1f9e-6a64-4b4a-9f1e-1d2f3c4b5a69", Content: "Query: hi", Metadata: map[string]string{domain.MetadataSource: domain.SourceChatHistory}, Embedding: domain.Embedding{0.1, 0.2}},
		{Content: "no vector"},
	})
	require.NoError(t, err)

	require.NotNil(t, fake.upserted)
	assert.Equal(t, "chat_history", fake.upserted.CollectionName)
	require.Len(t, fake.upserted.Points, 1)
	p := fake.upserted.Points[0]
	assert.Equal(t, "7b0c1f9e-6a64-4b4a-9f1e-1d2f3c4b5a69", p.GetId().GetUuid())
	assert.Equal(t, "Query: hi", p.GetPayload()["content"].GetStringValue())
	assert.Equal(t, domain.SourceChatHistory, p.GetPayload()["source"].GetStringValue())
}

func TestQdrantClient_UpsertNothing(t *testing.T) {
	fake := &fakePoints{}
	c := &QdrantClient{client: fake, collectionName: "c"}

	require.NoError(t, c.Upsert(context.Background(), nil))
	assert.Nil(t, fake.upserted)
}

func TestQdrantClient_QueryMapsPayload(t *testing.T) {
	fake := &fakePoints{searchRes: &qdrant.SearchResponse{Result: []*qdrant.ScoredPoint{
		{
			Id: &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: "id-1"}},
			Payload: map[string]*qdrant.Value{
				"content": {Kind: &qdrant.Value_StringValue{StringValue: "Response: hello"}},
				"source":  {Kind: &qdrant.Value_StringValue{StringValue: "chat history"}},
			},
			Score: 0.9,
		},
		{Id: &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: "no-payload"}}},
	}}}
	c := &QdrantClient{client: fake, collectionName: "c"}

	docs, err := c.Query(context.Background(), domain.Embedding{1, 0}, 3)
	require.NoError(t, err)

	assert.EqualValues(t, 3, fake.searched.Limit)
	require.Len(t, docs, 1)
	assert.Equal(t, "id-1", docs[0].ID)
	assert.Equal(t, "Response: hello", docs[0].Content)
	assert.Equal(t, "chat history", docs[0].Source())
}

func TestQdrantClient_Errors(t *testing.T) {
	fake := &fakePoints{err: errors.New("unavailable")}
	c := &QdrantClient{client: fake, collectionName: "c"}

	_, err := c.Query(context.Background(), domain.Embedding{1}, 1)
	assert.Error(t, err)
	err = c.Upsert(context.Background(), []domain.Document{{ID: "x", Embedding: domain.Embedding{1}}})
	assert.Error(t, err)
}
