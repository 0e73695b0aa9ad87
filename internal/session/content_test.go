// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/agentwatch/internal/common"
)

func TestContentBlocks(t *testing.T) {
	t.Run("structured list", func(t *testing.T) {
		blocks := contentBlocks([]interface{}{
			map[string]interface{}{"text": "hello"},
			map[string]interface{}{"toolUse": map[string]interface{}{"toolUseId": "c1"}},
		})

		require.Len(t, blocks, 2)
		assert.Equal(t, common.MapStr{"text": "hello"}, blocks[0])
	})

	t.Run("JSON string encoding", func(t *testing.T) {
		blocks := contentBlocks(`[{"text": "hello"}, {"text": "world"}]`)

		require.Len(t, blocks, 2)
		assert.Equal(t, common.MapStr{"text": "world"}, blocks[1])
	})

	t.Run("string that is not JSON", func(t *testing.T) {
		assert.Nil(t, contentBlocks("What's the weather?"))
	})

	t.Run("JSON string that is not a list", func(t *testing.T) {
		assert.Nil(t, contentBlocks(`{"text": "hello"}`))
	})

	t.Run("list with non-object elements", func(t *testing.T) {
		assert.Nil(t, contentBlocks([]interface{}{"just a string"}))
	})

	t.Run("unsupported content type", func(t *testing.T) {
		assert.Nil(t, contentBlocks(42))
		assert.Nil(t, contentBlocks(nil))
	})
}

func TestTextContent(t *testing.T) {
	blocks := contentBlocks([]interface{}{
		map[string]interface{}{"text": "first"},
		map[string]interface{}{"toolUse": map[string]interface{}{"toolUseId": "c1"}},
		map[string]interface{}{"text": ""},
		map[string]interface{}{"text": "second"},
	})

	assert.Equal(t, "first\nsecond", textContent(blocks))
}

func TestFlattenedContent(t *testing.T) {
	blocks := contentBlocks([]interface{}{
		map[string]interface{}{"text": "observed:"},
		map[string]interface{}{"json": map[string]interface{}{"temperature": "58F"}},
	})

	assert.Equal(t, "observed:\n{\"temperature\":\"58F\"}", flattenedContent(blocks))
}
