package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/clicky/persistence"
)

func TestWriteSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema", "save.schema.json")
	require.NoError(t, writeSchema(out, persistence.Schema()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotEmpty(t, doc)

	_, err = os.Stat(out + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestPrintSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSchema(&buf, persistence.Schema()))
	assert.Contains(t, buf.String(), "Clicky save record")
	assert.Contains(t, buf.String(), "active_effects")
}
