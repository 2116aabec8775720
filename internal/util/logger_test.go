package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerProduction(t *testing.T) {
	require.NoError(t, InitLogger("production"))
	defer SyncLogger()

	assert.NotNil(t, GetLogger())
}

func TestInitLoggerDevelopment(t *testing.T) {
	require.NoError(t, InitLogger("development"))
	defer SyncLogger()

	assert.NotNil(t, GetLogger())
}

func TestGetLoggerBeforeInit(t *testing.T) {
	logger = nil
	assert.NotNil(t, GetLogger())
}
