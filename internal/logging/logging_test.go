package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetWithoutInitReturnsUsableLogger(t *testing.T) {
	mu.Lock()
	base = nil
	cached = make(map[Category]*zap.SugaredLogger)
	mu.Unlock()

	l := Get(CategoryPipeline)
	require.NotNil(t, l)
	l.Infow("test line", "k", "v")
}

func TestInitThenGetTagsComponent(t *testing.T) {
	require.NoError(t, Init(true))
	defer Sync()

	l := Get(CategorySandbox)
	require.NotNil(t, l)

	again := Get(CategorySandbox)
	require.Same(t, l, again)
}
