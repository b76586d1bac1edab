package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	t.Setenv("GEN_RECORDS_TEST_STR", "value")
	assert.Equal(t, "value", GetString("GEN_RECORDS_TEST_STR", "fallback"))

	t.Setenv("GEN_RECORDS_TEST_STR", "   ")
	assert.Equal(t, "fallback", GetString("GEN_RECORDS_TEST_STR", "fallback"))

	assert.Equal(t, "fallback", GetString("GEN_RECORDS_TEST_UNSET", "fallback"))
}

func TestGetBool(t *testing.T) {
	t.Setenv("GEN_RECORDS_TEST_BOOL", "true")
	assert.True(t, GetBool("GEN_RECORDS_TEST_BOOL", false))

	t.Setenv("GEN_RECORDS_TEST_BOOL", "nope")
	assert.True(t, GetBool("GEN_RECORDS_TEST_BOOL", true))

	assert.False(t, GetBool("GEN_RECORDS_TEST_UNSET", false))
}

func TestIsSet(t *testing.T) {
	t.Setenv("GEN_RECORDS_TEST_SET", "x")
	assert.True(t, IsSet("GEN_RECORDS_TEST_SET"))

	t.Setenv("GEN_RECORDS_TEST_SET", "")
	assert.False(t, IsSet("GEN_RECORDS_TEST_SET"))
}
