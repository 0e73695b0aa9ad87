// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceDocument = `{
  "attributes": {
    "session.id": "sess-1",
    "gen_ai.operation.name": "execute_tool",
    "gen_ai.tool.name": "get_weather"
  },
  "resource": {
    "attributes": {
      "agent.id": "weather-agent"
    }
  },
  "output": {
    "message": {
      "role": "assistant",
      "content": [
        {"text": "It is sunny."}
      ]
    }
  },
  "durationNano": 912345678
}`

func decodeDocument(t *testing.T) MapStr {
	t.Helper()

	var doc MapStr
	require.NoError(t, json.Unmarshal([]byte(sourceDocument), &doc))
	return doc
}

func TestMapStrGetValue(t *testing.T) {
	cases := []struct {
		title         string
		fieldKey      string
		expectedValue interface{}
	}{
		{
			title:         "string value",
			fieldKey:      "attributes.session.id",
			expectedValue: "sess-1",
		},
		{
			title:         "float64 value",
			fieldKey:      "durationNano",
			expectedValue: float64(912345678),
		},
		{
			title:         "slice value",
			fieldKey:      "output.message.content",
			expectedValue: []interface{}{map[string]interface{}{"text": "It is sunny."}},
		},
		{
			title:         "map value",
			fieldKey:      "resource.attributes",
			expectedValue: map[string]interface{}{"agent.id": "weather-agent"},
		},
	}

	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			val, err := decodeDocument(t).GetValue(c.fieldKey)
			assert.NoError(t, err)
			assert.Equal(t, c.expectedValue, val)
		})
	}
}

func TestMapStrGetValueLiteralKeyWins(t *testing.T) {
	// OTel-style attributes keep dots in the key itself, the lookup must not
	// descend into a nested "gen_ai" document that does not exist.
	val, err := decodeDocument(t).GetValue("attributes.gen_ai.tool.name")
	require.NoError(t, err)
	assert.Equal(t, "get_weather", val)
}

func TestMapStrGetValueNotFound(t *testing.T) {
	doc := decodeDocument(t)

	_, err := doc.GetValue("input.messages")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = doc.GetValue("output.missing.deeper")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMapStrGetValueThroughNonMap(t *testing.T) {
	_, err := decodeDocument(t).GetValue("durationNano.unit")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}

func TestToMapStr(t *testing.T) {
	t.Run("plain map", func(t *testing.T) {
		m, err := ToMapStr(map[string]interface{}{"text": "It is sunny."})
		require.NoError(t, err)
		assert.Equal(t, MapStr{"text": "It is sunny."}, m)
	})

	t.Run("already a MapStr", func(t *testing.T) {
		m, err := ToMapStr(MapStr{"text": "It is sunny."})
		require.NoError(t, err)
		assert.Equal(t, MapStr{"text": "It is sunny."}, m)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := ToMapStr(nil)
		assert.Error(t, err)
	})

	t.Run("scalar", func(t *testing.T) {
		_, err := ToMapStr("It is sunny.")
		assert.Error(t, err)
	})
}

func TestToMapStrSlice(t *testing.T) {
	raw, err := decodeDocument(t).GetValue("output.message.content")
	require.NoError(t, err)

	blocks, err := ToMapStrSlice(raw)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, MapStr{"text": "It is sunny."}, blocks[0])

	_, err = ToMapStrSlice("not a slice")
	assert.Error(t, err)

	_, err = ToMapStrSlice([]interface{}{"not a document"})
	assert.Error(t, err)
}
