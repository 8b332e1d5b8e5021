package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolveAPIURL_Order(t *testing.T) {
	all := env(map[string]string{"STOREFRONT_API_URL": "http://env", "VITE_API_URL": "http://vite"})

	assert.Equal(t, "http://build", ResolveAPIURL("http://build", "http://runtime", all))
	assert.Equal(t, "http://runtime", ResolveAPIURL("", "http://runtime", all))
	assert.Equal(t, "http://env", ResolveAPIURL("", "", all))
	assert.Equal(t, "http://vite", ResolveAPIURL("", "", env(map[string]string{"VITE_API_URL": "http://vite"})))
	assert.Equal(t, DefaultAPIURL, ResolveAPIURL("", "  ", env(nil)))
	assert.Equal(t, DefaultAPIURL, ResolveAPIURL("", "", nil))
}

func TestLoad_UsesOverride(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "http://env")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("HTTP_TIMEOUT", "nope")
	SetOverride("http://runtime")
	t.Cleanup(func() { SetOverride("") })

	cfg := Load()
	assert.Equal(t, "http://runtime", cfg.APIURL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "cart_events", cfg.KafkaTopic)
	assert.Equal(t, float64(15), cfg.HTTPTimeout.Seconds())
}

func TestCSV_Empty(t *testing.T) {
	assert.Nil(t, CSV(""))
}
