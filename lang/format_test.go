package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formatConfig = "B=2\n" +
	"A='say \"hi\"'\n" +
	"db:Store(KIND=pg)\n" +
	"App(NAME=api,db)\n" +
	"App(PORT='8080')\n"

func TestFormatNative(t *testing.T) {
	ctx := context.Background()
	c, _ := readTestConfig(t, MapOpener{"config": formatConfig})

	var buf bytes.Buffer
	require.NoError(t, c.Format(ctx, &buf, 0))

	assert.Equal(t, "A='say \"hi\"'\n"+
		"B=\"2\"\n"+
		"db:Store(KIND=\"pg\")\n"+
		"App(db,NAME=\"api\")\n"+
		"App(PORT=\"8080\")\n", buf.String())

	again, _ := readTestConfig(t, MapOpener{"config": buf.String()})
	assert.Equal(t, c.Snapshot(), again.Snapshot())
}

func TestSnapshotIsolated(t *testing.T) {
	c, _ := readTestConfig(t, MapOpener{"config": formatConfig})

	snap := c.Snapshot()
	snap.Vars["B"] = "changed"
	snap.Instances["App"][0].Fields["NAME"] = "changed"
	snap.Instances["App"][0].Refs[0].Ordinal = 9
	snap.Instances["App"] = append(snap.Instances["App"], &Instance{Type: "App"})
	snap.Names["db"] = Ref{Type: "App"}

	assert.Equal(t, "2", c.Vars()["B"])
	assert.Equal(t, "api", c.Instances()["App"][0].Fields["NAME"])
	assert.Equal(t, 0, c.Instances()["App"][0].Refs[0].Ordinal)
	assert.Len(t, c.Instances()["App"], 2)
	assert.Equal(t, Ref{Type: "Store"}, c.Names()["db"])
}

func TestFormatStructured(t *testing.T) {
	ctx := context.Background()
	c, _ := readTestConfig(t, MapOpener{"config": formatConfig})

	check := func(t *testing.T, snap Snapshot) {
		t.Helper()

		assert.Equal(t, "2", snap.Vars["B"])
		assert.Equal(t, "Store", snap.Vars["db:TYPE"])
		require.Len(t, snap.Instances["App"], 2)
		assert.Equal(t, "api", snap.Instances["App"][0].Fields["NAME"])
		assert.Equal(t, "pg", snap.Instances["App"][0].Fields["StoreKIND"])
		assert.Equal(t, []Ref{{Type: "Store", Ordinal: 0}}, snap.Instances["App"][0].Refs)
		assert.Equal(t, 1, snap.Instances["App"][1].Ordinal)
		assert.Equal(t, Ref{Type: "Store", Ordinal: 0}, snap.Names["db"])
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, c.FormatJSON(ctx, &buf, 2))

		var snap Snapshot
		require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
		check(t, snap)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, c.FormatYAML(ctx, &buf, 2))

		var snap Snapshot
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &snap))
		check(t, snap)
	})

	t.Run("toml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, c.FormatTOML(ctx, &buf, 2))

		var snap Snapshot
		require.NoError(t, toml.Unmarshal(buf.Bytes(), &snap))
		check(t, snap)
	})
}
