package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateRequestedName(t *testing.T) {
	r := newNameRegistry()

	name, usedFallback := r.Allocate("Prometheus", "prometheus_0")
	assert.Equal(t, "Prometheus", name)
	assert.False(t, usedFallback)
	assert.True(t, r.Has("Prometheus"))
}

func TestAllocateFallbackOnEmptyRequest(t *testing.T) {
	r := newNameRegistry()

	name, usedFallback := r.Allocate("", "prometheus_0")
	assert.Equal(t, "prometheus_0", name)
	assert.True(t, usedFallback)
}

func TestAllocateFallbackOnDuplicate(t *testing.T) {
	r := newNameRegistry()
	r.Allocate("Prometheus", "prometheus_0")

	name, usedFallback := r.Allocate("Prometheus", "prometheus_1")
	assert.Equal(t, "prometheus_1", name)
	assert.True(t, usedFallback)
}

func TestAllocateSuffixesWhenFallbackTaken(t *testing.T) {
	r := newNameRegistry()
	r.Allocate("prometheus_0", "unused")

	name, usedFallback := r.Allocate("", "prometheus_0")
	assert.Equal(t, "prometheus_0_2", name)
	assert.True(t, usedFallback)
}

func TestReleaseMakesNameReusable(t *testing.T) {
	r := newNameRegistry()
	r.Allocate("Prometheus", "prometheus_0")
	r.Release("Prometheus")

	name, usedFallback := r.Allocate("Prometheus", "prometheus_1")
	assert.Equal(t, "Prometheus", name)
	assert.False(t, usedFallback)
}

func TestFallbackNameFormat(t *testing.T) {
	assert.Equal(t, "prometheus_3", fallbackName("prometheus", "3"))
}
