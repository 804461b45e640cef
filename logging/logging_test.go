package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	Setup("debug")
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, isJSON)

	Setup("chatty")
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
