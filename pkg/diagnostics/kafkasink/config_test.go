package kafkasink

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{Brokers: "localhost:9092", Topic: "diagnostics"}

	assert.NoError(t, valid.Validate())
	assert.Error(t, Config{Topic: "diagnostics"}.Validate())
	assert.Error(t, Config{Brokers: "localhost:9092"}.Validate())
	assert.Error(t, Config{Brokers: "localhost:9092", Topic: "d", Categories: []string{"bogus"}}.Validate())
}

func TestConfig_Mask(t *testing.T) {
	all := Config{}.mask()
	assert.Equal(t,
		diagnostics.CategoryRequests|diagnostics.CategoryServiceInitialization|diagnostics.CategoryEventHub,
		all)

	partial := Config{Categories: []string{"eventHub"}}.mask()
	assert.Equal(t, diagnostics.CategoryEventHub, partial)
}

func TestNewConfig(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
kafkaSink:
  brokers: localhost:9092
  topic: diagnostics
  categories:
    - requests
  flushTimeoutMs: 1500
`)))

	cfg, err := newConfig(v)

	require.NoError(t, err)
	assert.Equal(t, "localhost:9092", cfg.Brokers)
	assert.Equal(t, "diagnostics", cfg.Topic)
	assert.Equal(t, 1500, cfg.flushTimeoutMs())
}

func TestNewConfig_MissingSection(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`logger: {}`)))

	_, err := newConfig(v)

	assert.Error(t, err)
}

func TestRecord_JSONShape(t *testing.T) {
	data, err := json.Marshal(record{
		EventID:   3,
		Name:      "ServiceTypeRegistered",
		Severity:  "informational",
		Timestamp: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Values:    []any{4242, "Processor"},
	})

	require.NoError(t, err)
	payload := string(data)
	assert.Contains(t, payload, `"event_id":3`)
	assert.Contains(t, payload, `"name":"ServiceTypeRegistered"`)
	assert.Contains(t, payload, `"values":[4242,"Processor"]`)
}
