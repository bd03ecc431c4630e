package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/expand/lang"
)

// newTestSession returns a Session over in-memory documents writing to out.
func newTestSession(docs lang.MapOpener, out *bytes.Buffer) *Session {
	return &Session{
		Config:  DefaultConfig,
		Opener:  docs,
		Stdout:  out,
		Options: []lang.Option{lang.WithWorkingDir("/home/user/proj")},
	}
}

func TestSessionPrelude(t *testing.T) {
	tests := []struct {
		name       string
		config     string
		statements []string
		want       []string
	}{
		{"default", DefaultConfig, nil, []string{"CONFIG="}},
		{"extension", "dir/site.cfg", nil, []string{"CONFIG=site"}},
		{"bare", "web", []string{"MODE=debug"}, []string{"CONFIG=web", "MODE=debug"}},
		{"other_extension", "web.conf", nil, []string{"CONFIG=web.conf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{Config: tt.config}
			assert.Equal(t, tt.want, s.Prelude(tt.statements...))
		})
	}
}

func TestSessionLoad(t *testing.T) {
	ctx := context.Background()
	docs := lang.MapOpener{
		"config": "NAME=world\n$$IF(MODE)\nLEVEL=$$MODE\n$$ENDIF(MODE)\n",
		"site":   "NAME=site $$CONFIG\n",
	}

	s := newTestSession(docs, nil)

	t.Run("statements", func(t *testing.T) {
		cfg, err := s.Load(ctx, "MODE=release")
		require.NoError(t, err)

		vars := cfg.Vars()
		assert.Equal(t, "world", vars["NAME"])
		assert.Equal(t, "release", vars["LEVEL"])
		assert.Equal(t, "", vars["CONFIG"])
	})

	t.Run("reload", func(t *testing.T) {
		cfg, err := s.Reload(ctx)
		require.NoError(t, err)

		_, ok := cfg.Lookup("LEVEL")
		assert.False(t, ok)
	})

	t.Run("document", func(t *testing.T) {
		cfg, err := s.LoadDocument(ctx, "site")
		require.NoError(t, err)

		v, _ := cfg.Lookup("NAME")
		assert.Equal(t, "site", v)
	})

	t.Run("named_config", func(t *testing.T) {
		named := newTestSession(docs, nil)
		named.Config = "site"

		cfg, err := named.Load(ctx)
		require.NoError(t, err)

		v, _ := cfg.Lookup("NAME")
		assert.Equal(t, "site site", v)
	})

	t.Run("missing", func(t *testing.T) {
		missing := newTestSession(lang.MapOpener{}, nil)

		_, err := missing.Load(ctx)
		assert.ErrorIs(t, err, lang.ErrConfigNotFound)
	})
}

// purgeOpener counts calls to Purge.
type purgeOpener struct {
	lang.MapOpener

	purged int
}

func (p *purgeOpener) Purge() { p.purged++ }

func TestSessionPurge(t *testing.T) {
	ctx := context.Background()
	opener := &purgeOpener{MapOpener: lang.MapOpener{"config": "A=1\n", "other": "B=2\n"}}

	s := &Session{Config: DefaultConfig, Opener: opener}

	_, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, opener.purged)

	_, err = s.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, opener.purged)

	_, err = s.LoadDocument(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 2, opener.purged)
}

func TestSessionFromDefault(t *testing.T) {
	s := sessionFrom(context.Background())
	require.NotNil(t, s)
	assert.Equal(t, DefaultConfig, s.Config)

	want := &Session{Config: "site"}
	assert.Same(t, want, sessionFrom(WithSession(context.Background(), want)))
}

// failWriter fails every write.
type failWriter struct{}

var errDiskFull = errors.New("disk full")

func (failWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestOutputWriter(t *testing.T) {
	var buf bytes.Buffer

	n, err := outputWriter{w: &buf, name: "out"}.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", buf.String())

	_, err = outputWriter{w: failWriter{}, name: "out"}.Write([]byte("abc"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWriteOutput)
	assert.ErrorIs(t, err, errDiskFull)
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer

	ctx := WithSession(context.Background(), newTestSession(nil, &buf))
	require.NoError(t, Version{}.Run(ctx))
	assert.Regexp(t, `^expand \d+\.\d+\.\d+\n$`, buf.String())
}
