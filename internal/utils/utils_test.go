package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-factcheck-chat/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestToStringSlice(t *testing.T) {
	require.Equal(t, []string{"a", "c"}, utils.ToStringSlice([]any{"a", 1.0, "c", nil}))
	require.Empty(t, utils.ToStringSlice([]any{}))
	require.Nil(t, utils.ToStringSlice("not a slice"))
	require.Nil(t, utils.ToStringSlice(nil))
}
