package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithFields(t *testing.T) {
	t.Run("fields accumulate across calls", func(t *testing.T) {
		ctx := WithFields(context.Background(), String("request_id", "r1"))
		ctx = WithFields(ctx, String("model", "m1"))

		fields := fromContext(ctx, []Field{String("extra", "x")})
		assert.Len(t, fields, 3)
		assert.Equal(t, "request_id", fields[0].Key)
		assert.Equal(t, "model", fields[1].Key)
		assert.Equal(t, "extra", fields[2].Key)
	})

	t.Run("plain context adds nothing", func(t *testing.T) {
		fields := fromContext(context.Background(), []Field{String("extra", "x")})
		assert.Len(t, fields, 1)
	})

	t.Run("scoped fields do not leak to the parent", func(t *testing.T) {
		parent := context.Background()
		_ = WithFields(parent, String("request_id", "r1"))

		assert.Empty(t, fromContext(parent, nil))
	})
}

func TestDebugEnabled(t *testing.T) {
	t.Cleanup(func() {
		SetGlobalConfig(DefaultConfig())
	})

	SetGlobalConfig(Config{Name: "test", Level: "info", Format: "console"})
	assert.False(t, DebugEnabled(context.Background()))

	SetGlobalConfig(Config{Name: "test", Level: "debug", Format: "console"})
	assert.True(t, DebugEnabled(context.Background()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "info", parseLevel("unknown").String())
	assert.Equal(t, "error", parseLevel("error").String())
}
