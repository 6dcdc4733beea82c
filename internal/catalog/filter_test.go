package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aurastore_back_end/internal/catalog"
	"aurastore_back_end/internal/models"
)

var sample = []models.Product{
	{ID: "1", Name: "Casque", Category: "Electronics"},
	{ID: "2", Name: "Lampe", Category: "Home & Living"},
	{ID: "3", Name: "Montre", Category: "Electronics"},
}

func TestFilterByCategory(t *testing.T) {
	got := catalog.FilterByCategory(sample, "electronics")
	assert.Len(t, got, 2)
}

func TestFilterByCategorySubstring(t *testing.T) {
	got := catalog.FilterByCategory(sample, "living")
	assert.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilterByCategoryAll(t *testing.T) {
	assert.Len(t, catalog.FilterByCategory(sample, ""), 3)
	assert.Len(t, catalog.FilterByCategory(sample, "all"), 3)
}

func TestFilterByCategoryNoMatch(t *testing.T) {
	assert.Empty(t, catalog.FilterByCategory(sample, "jardin"))
}
