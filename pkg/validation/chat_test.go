package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateMessage(t *testing.T) {
	v := NewChatRequestValidator()

	trimmed, err := v.ValidateMessage("  hello  ")
	require.NoError(t, err)
	require.Equal(t, "hello", trimmed)

	exactly5000 := strings.Repeat("m", MaxMessageLength)
	trimmed, err = v.ValidateMessage(exactly5000)
	require.NoError(t, err)
	require.Equal(t, exactly5000, trimmed)

	_, err = v.ValidateMessage(exactly5000 + "m")
	require.Error(t, err)

	_, err = v.ValidateMessage("")
	require.Error(t, err)

	_, err = v.ValidateMessage("   \n\t ")
	require.Error(t, err)

	// Bound counts runes, not bytes
	multibyte := strings.Repeat("é", MaxMessageLength)
	_, err = v.ValidateMessage(multibyte)
	require.NoError(t, err)
}

func TestValidateTitle(t *testing.T) {
	v := NewChatRequestValidator()

	trimmed, err := v.ValidateTitle(" Project notes ")
	require.NoError(t, err)
	require.Equal(t, "Project notes", trimmed)

	_, err = v.ValidateTitle(strings.Repeat("t", MaxTitleLength))
	require.NoError(t, err)

	_, err = v.ValidateTitle(strings.Repeat("t", MaxTitleLength+1))
	require.Error(t, err)

	_, err = v.ValidateTitle("  ")
	require.Error(t, err)
}

func TestValidatePage(t *testing.T) {
	v := NewChatRequestValidator()

	page, size, err := v.ValidatePage(0, 0, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page)
	require.Equal(t, 20, size)

	page, size, err = v.ValidatePage(-3, -1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page)
	require.Equal(t, 20, size)

	page, size, err = v.ValidatePage(2, MaxPageSize, 20)
	require.NoError(t, err)
	require.Equal(t, 2, page)
	require.Equal(t, MaxPageSize, size)

	_, _, err = v.ValidatePage(1, MaxPageSize+1, 20)
	require.Error(t, err)
}
