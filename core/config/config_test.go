package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/config"
)

type pagerConfig struct {
	PageSize int    `env:"TEST_CONFIG_PAGE_SIZE" envDefault:"10"`
	Source   string `env:"TEST_CONFIG_SOURCE" envDefault:"memory"`
}

type cachedConfig struct {
	Name string `env:"TEST_CONFIG_CACHED_NAME"`
}

type requiredConfig struct {
	URL string `env:"TEST_CONFIG_REQUIRED_URL,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg pagerConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "memory", cfg.Source)
}

func TestLoad_CachesPerType(t *testing.T) {
	t.Setenv("TEST_CONFIG_CACHED_NAME", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Name)

	t.Setenv("TEST_CONFIG_CACHED_NAME", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Name, "cached value is returned")
}

func TestLoad_Errors(t *testing.T) {
	var missing requiredConfig
	require.Error(t, config.Load(&missing))

	assert.ErrorIs(t, config.Load[requiredConfig](nil), config.ErrNilConfig)
	assert.Panics(t, func() { config.MustLoad(&missing) })
}
