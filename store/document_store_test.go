package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanshenghua/go-span-search/model"
)

func TestDocumentStore(t *testing.T) {
	ds := NewDocumentStore()
	assert.Equal(t, 0, ds.Count())

	ds.Mu.Lock()
	ds.Docs[0] = model.Document{"documentID": "doc1", "body": "quick fox"}
	ds.ExternalIDtoInternalID["doc1"] = 0
	ds.NextID = 1
	ds.Mu.Unlock()

	assert.Equal(t, 1, ds.Count())

	doc, found := ds.GetByExternalID("doc1")
	require.True(t, found)
	assert.Equal(t, "quick fox", doc["body"])

	_, found = ds.GetByExternalID("ghost")
	assert.False(t, found)
}
