package domain

// MetadataSource is the metadata key holding where a document came from.
const MetadataSource = "source"

// SourceChatHistory marks documents produced from previous exchanges.
const SourceChatHistory = "chat history"

// Document is a chunk of text stored in the vector index.
type Document struct {
	ID        string            `json:"id"`                 // Unique identifier (UUID)
	Content   string            `json:"content"`            // The chunk text
	Metadata  map[string]string `json:"metadata,omitempty"` // e.g. {"source": "chat history"}
	Embedding Embedding         `json:"embedding,omitempty"`
}

// Source returns the document's source metadata, or "" when unset.
func (d Document) Source() string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[MetadataSource]
}
