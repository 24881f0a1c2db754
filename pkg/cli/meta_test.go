package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/bicubic/pkg/stdimg"
)

func TestNormalizeArgs(t *testing.T) {
	store := NewMetaStore(stdimg.Commands)
	cases := []struct {
		cmd  string
		args []string
		want []string
	}{
		{"resize", []string{"640", " 480 "}, []string{"640", "480"}},
		{"resize", []string{"+64", "32", "ASYNC"}, []string{"64", "32", "parallel"}},
		{"scale", []string{"150%"}, []string{"1.5"}},
		{"scale", []string{"0.25", "seq"}, []string{"0.25", "sequential"}},
		{"adaptiveResize", []string{"100"}, []string{"100", "0"}},
		{"identify", nil, []string{}},
	}
	for _, tc := range cases {
		got, err := store.NormalizeArgs(tc.cmd, tc.args)
		require.NoError(t, err, "%s %v", tc.cmd, tc.args)
		assert.Equal(t, tc.want, got, "%s %v", tc.cmd, tc.args)
	}
}

func TestNormalizeArgsErrors(t *testing.T) {
	store := NewMetaStore(stdimg.Commands)
	cases := []struct {
		cmd  string
		args []string
	}{
		{"rotate", []string{"90"}},
		{"resize", []string{"10"}},
		{"resize", []string{"ten", "10"}},
		{"resize", []string{"-1", "10"}},
		{"resize", []string{"10", "10", "diagonal"}},
		{"resize", []string{"10", "10", "seq", "extra"}},
		{"scale", []string{"0"}},
		{"scale", []string{"abc%"}},
	}
	for _, tc := range cases {
		_, err := store.NormalizeArgs(tc.cmd, tc.args)
		assert.Error(t, err, "%s %v", tc.cmd, tc.args)
	}
}

func TestGetCommandHelp(t *testing.T) {
	store := NewMetaStore(stdimg.Commands)
	tip, rules, err := store.GetCommandHelp("resize")
	require.NoError(t, err)
	assert.Contains(t, tip, "bicubic")
	assert.Contains(t, tip, "- width (int, required)")
	assert.Contains(t, tip, "[sequential|parallel]")
	assert.Equal(t, ParamTypeInt, rules["width"].Type)
	assert.Equal(t, []string{"sequential", "parallel"}, rules["strategy"].EnumOptions)

	tip, _, err = store.GetCommandHelp("strip")
	require.NoError(t, err)
	assert.Contains(t, tip, "No parameters.")

	_, _, err = store.GetCommandHelp("nope")
	assert.Error(t, err)
}

func TestParsePercentValue(t *testing.T) {
	v, err := parsePercentValue("50%")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-12)
	v, err = parsePercentValue(" 2 ")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-12)
	_, err = parsePercentValue("%")
	assert.Error(t, err)
}
