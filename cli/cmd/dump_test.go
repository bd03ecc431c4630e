package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/expand/lang"
)

func TestDump(t *testing.T) {
	docs := lang.MapOpener{"config": "NAME=world\ndb:Store(KIND=pg)\n"}

	dump := func(t *testing.T, d *Dump) []byte {
		t.Helper()

		var buf bytes.Buffer

		ctx := WithSession(context.Background(), newTestSession(docs, &buf))
		require.NoError(t, d.Run(ctx))

		return buf.Bytes()
	}

	check := func(t *testing.T, snap lang.Snapshot) {
		t.Helper()

		assert.Equal(t, "world", snap.Vars["NAME"])
		require.Len(t, snap.Instances["Store"], 1)
		assert.Equal(t, "pg", snap.Instances["Store"][0].Fields["KIND"])
		assert.Equal(t, lang.Ref{Type: "Store", Ordinal: 0}, snap.Names["db"])
	}

	t.Run("native", func(t *testing.T) {
		out := string(dump(t, &Dump{Format: "native"}))
		assert.Contains(t, out, "NAME=\"world\"\n")
		assert.Contains(t, out, "db:Store(KIND=\"pg\")\n")
	})

	t.Run("json", func(t *testing.T) {
		var snap lang.Snapshot
		require.NoError(t, json.Unmarshal(dump(t, &Dump{Format: "json", Indent: 2}), &snap))
		check(t, snap)
	})

	t.Run("json_compact", func(t *testing.T) {
		out := dump(t, &Dump{Format: "json"})
		assert.NotContains(t, string(bytes.TrimSpace(out)), "\n")
	})

	t.Run("yaml", func(t *testing.T) {
		var snap lang.Snapshot
		require.NoError(t, yaml.Unmarshal(dump(t, &Dump{Format: "yaml", Indent: 2}), &snap))
		check(t, snap)
	})

	t.Run("toml", func(t *testing.T) {
		var snap lang.Snapshot
		require.NoError(t, toml.Unmarshal(dump(t, &Dump{Format: "toml", Indent: 2}), &snap))
		check(t, snap)
	})

	t.Run("unknown", func(t *testing.T) {
		var buf bytes.Buffer

		ctx := WithSession(context.Background(), newTestSession(docs, &buf))
		assert.ErrorIs(t, (&Dump{Format: "xml"}).Run(ctx), ErrUnknownFormat)
	})
}
