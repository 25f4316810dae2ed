package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
)

func TestCatalog_FindPortByName_ExactMatchOnly(t *testing.T) {
	c := &catalog.Catalog{Ports: []catalog.Port{
		{ID: 1, Name: "Rotterdam", Lat: 51.9, Lon: 4.5},
		{ID: 2, Name: "Singapore", Lat: 1.29, Lon: 103.85},
	}}

	port, ok := c.FindPortByName("Rotterdam")
	assert.True(t, ok)
	assert.Equal(t, 1, port.ID)

	_, ok = c.FindPortByName("rotterdam")
	assert.False(t, ok)

	_, ok = c.FindPortByName("Node-X")
	assert.False(t, ok)
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	var c *catalog.Catalog

	assert.True(t, c.IsEmpty())
	_, ok := c.FindPortByName("Rotterdam")
	assert.False(t, ok)
	assert.Nil(t, c.CarriersFor(catalog.ModeOcean))
}

func TestParseTransportMode(t *testing.T) {
	mode, err := catalog.ParseTransportMode(" Ocean ")
	assert.NoError(t, err)
	assert.Equal(t, catalog.ModeOcean, mode)

	_, err = catalog.ParseTransportMode("multi-modal")
	assert.Error(t, err)
}
