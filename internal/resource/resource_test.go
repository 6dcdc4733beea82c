package resource_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"aurastore_back_end/internal/resource"
)

func TestVariants(t *testing.T) {
	loading := resource.Loading[int]()
	assert.Equal(t, resource.StatusLoading, loading.Status)
	assert.False(t, loading.IsSuccess())
	assert.False(t, loading.IsError())

	ok := resource.Success(42)
	assert.True(t, ok.IsSuccess())
	assert.Equal(t, 42, ok.Data)

	boom := errors.New("boom")
	failed := resource.Failure[int](boom)
	assert.True(t, failed.IsError())
	assert.ErrorIs(t, failed.Err, boom)
}
