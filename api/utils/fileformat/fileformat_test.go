package fileformat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueFormat(t *testing.T) {
	a := UniqueFormat("Cat Photo.GIF")
	b := UniqueFormat("Cat Photo.GIF")

	assert.True(t, strings.HasSuffix(a, ".gif"))
	assert.NotEqual(t, a, b)
	assert.Len(t, strings.TrimSuffix(a, ".gif"), 36)
	assert.Len(t, UniqueFormat("noext"), 36)
}
