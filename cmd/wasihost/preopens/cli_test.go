package preopens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgavlin/wasihost/wasi"
)

func TestParseDefaults(t *testing.T) {
	p, err := parseOne("/srv/data")
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", p.FSPath)
	assert.Equal(t, "/srv/data", p.Path)
	assert.Equal(t, wasi.Rights(wasi.AllRights), p.Rights)
	assert.Equal(t, wasi.Rights(wasi.AllRights), p.Inherit)
}

func TestParseGuestPath(t *testing.T) {
	p, err := parseOne("/data=/srv/data")
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", p.FSPath)
	assert.Equal(t, "/data", p.Path)
}

func TestParseFlags(t *testing.T) {
	p, err := parseOne("/data=/srv/data,=ro")
	require.NoError(t, err)
	assert.Equal(t, wasi.Rights(wasi.ReadOnlyRights), p.Rights)
	assert.Equal(t, wasi.Rights(wasi.AllRights), p.Inherit)

	p, err = parseOne("/data=/srv/data,=file,fd_readdir,-fd_write")
	require.NoError(t, err)
	assert.Equal(t, wasi.Rights(wasi.FileRights|wasi.RightsFdReaddir)&^wasi.RightsFdWrite, p.Rights)

	p, err = parseOne("/data=/srv/data,inherit:=ro")
	require.NoError(t, err)
	assert.Equal(t, wasi.Rights(wasi.AllRights), p.Rights)
	assert.Equal(t, wasi.Rights(wasi.ReadOnlyRights), p.Inherit)
}

func TestParseErrors(t *testing.T) {
	_, err := parseOne("/data,bogus")
	assert.Error(t, err)

	_, err = parseOne("")
	assert.Error(t, err)
}

func TestParseMany(t *testing.T) {
	values, err := Parse([]string{"/a", "/b=/srv/b"})
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "/a", values[0].FSPath)
	assert.Equal(t, "/b", values[1].Path)
}

func TestPreopensFlagValue(t *testing.T) {
	var p Preopens
	require.NoError(t, p.Set("/a"))
	require.NoError(t, p.Set("/b=/srv/b,=ro"))
	assert.Equal(t, "/a;/b=/srv/b,=ro", p.String())
	assert.Equal(t, "mount", p.Type())
	assert.Len(t, p.Values(), 2)
}

func TestRightsString(t *testing.T) {
	assert.Equal(t, "all", rightsString(wasi.AllRights))
	assert.Equal(t, "fd_read fd_write", rightsString(wasi.RightsFdRead|wasi.RightsFdWrite))
}
