package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDollars(t *testing.T) {
	assert.Equal(t, "$0.00", dollars(0))
	assert.Equal(t, "$0.01", dollars(1))
	assert.Equal(t, "$0.90", dollars(90))
	assert.Equal(t, "$50.00", dollars(5000))
	assert.Equal(t, "$123.45", dollars(12345))
}

func TestAppURL(t *testing.T) {
	t.Setenv("APP_URL", "")
	assert.Equal(t, "http://localhost:3000", appURL())

	t.Setenv("APP_URL", "https://collabotree.app/")
	assert.Equal(t, "https://collabotree.app", appURL())

	t.Setenv("APP_URL", "https://collabotree.app")
	assert.Equal(t, "https://collabotree.app", appURL())
}
