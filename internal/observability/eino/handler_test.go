package eino

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manuscript-gen/internal/workflow/prompt"
	"manuscript-gen/pkg/metrics"
)

func TestInit_CountsTemplateRenders(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(metrics.TemplateRenderTotal.WithLabelValues("success"))

	_, err := prompt.NewRegistry().Render(context.Background(), prompt.PromptProbeV1, map[string]any{
		"reference": "probe-1",
	})
	require.NoError(t, err)

	after := testutil.ToFloat64(metrics.TemplateRenderTotal.WithLabelValues("success"))
	assert.Equal(t, before+1, after)
}
