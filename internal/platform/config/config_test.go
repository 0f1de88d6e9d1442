package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 256, cfg.QueueSize)
	assert.Equal(t, 10*time.Second, cfg.ActionTimeout)
	assert.Equal(t, time.Minute, cfg.EventDeadline)
	assert.Equal(t, 24*time.Hour, cfg.DeadlineHorizon)
	assert.Equal(t, "tracker-events", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.SchedulerEnabled())
}

func Test_FromEnv_Overrides(t *testing.T) {
	t.Setenv("TT_AUTOMATION_ADDR", ":9090")
	t.Setenv("TT_AUTOMATION_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("TT_AUTOMATION_ACTION_TIMEOUT", "2s")
	t.Setenv("TT_AUTOMATION_TRACKER_BASE_URL", "http://tracker:8000")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Second, cfg.ActionTimeout)
	assert.True(t, cfg.KafkaEnabled())
	assert.True(t, cfg.SchedulerEnabled())
}

func Test_FromEnv_BadDuration(t *testing.T) {
	t.Setenv("TT_AUTOMATION_EVENT_DEADLINE", "soonish")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
