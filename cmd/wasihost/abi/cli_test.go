package abi

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/wasihost/wasi"
)

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dump(csv.NewWriter(&buf)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	// Header plus one row per exported function.
	require.Len(t, records, len(wasi.FunctionNames())+1)
	assert.Equal(t, []string{"index", "name", "params", "results"}, records[0])

	assert.Equal(t, []string{"0", "args_get", "i32 i32", "i32"}, records[1])

	byName := map[string][]string{}
	for _, r := range records[1:] {
		byName[r[1]] = r
	}
	assert.Equal(t, "i32 i64 i32 i32", byName["fd_seek"][2])
	assert.Equal(t, "i32 i32 i32 i32 i32 i64 i64 i32 i32", byName["path_open"][2])
	assert.Equal(t, "", byName["proc_exit"][3])
}
