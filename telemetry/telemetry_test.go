package telemetry

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusNotifierLogsMessage(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := NewLogrusNotifier(logger)

	err := n.Notify(context.Background(), "worker: no profitable path for 0x2::sui::SUI")
	require.NoError(t, err)

	require.Len(t, hook.Entries, 1)
	assert.Contains(t, hook.Entries[0].Message, "no profitable path")
}
