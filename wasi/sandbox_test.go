package wasi

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	cases := []struct {
		path string
		want string
		err  error
	}{
		{path: "a/b/c", want: "a/b/c"},
		{path: "./a/./b", want: "a/b"},
		{path: "a//b", want: "a/b"},
		{path: "a/b/", want: "a/b"},
		{path: ".", want: "."},
		{path: "a/..", want: "."},
		{path: "a/b/../c", want: "a/c"},
		{path: "a/../a/b", want: "a/b"},

		{path: "", err: os.ErrNotExist},
		{path: "a\x00b", err: os.ErrInvalid},
		{path: "/etc/passwd", err: ErrPathEscapes},
		{path: "..", err: ErrPathEscapes},
		{path: "../a", err: ErrPathEscapes},
		{path: "a/../../b", err: ErrPathEscapes},
	}

	for _, c := range cases {
		got, err := sanitizePath(c.path)
		if c.err != nil {
			assert.Equal(t, c.err, err, "path %q", c.path)
			continue
		}
		require.NoError(t, err, "path %q", c.path)
		assert.Equal(t, c.want, got, "path %q", c.path)
	}
}

func TestConfinePath(t *testing.T) {
	root, err := ioutil.TempDir("", "confine")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "dir"), 0700))
	require.NoError(t, ioutil.WriteFile(filepath.Join(root, "sub", "file"), []byte("x"), 0600))

	p, err := confinePath(root, "sub/file", true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub", "file"), p)

	// Nonexistent trailing components are accepted so that creation
	// targets resolve.
	p, err = confinePath(root, "sub/dir/new", true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub", "dir", "new"), p)
}

func TestConfinePathSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	root, err := ioutil.TempDir("", "confine")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	outside, err := ioutil.TempDir("", "outside")
	require.NoError(t, err)
	defer os.RemoveAll(outside)

	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0700))
	require.NoError(t, ioutil.WriteFile(filepath.Join(root, "target"), []byte("x"), 0600))
	require.NoError(t, ioutil.WriteFile(filepath.Join(outside, "secret"), []byte("x"), 0600))

	// A relative link inside the root resolves through it.
	require.NoError(t, os.Symlink("../target", filepath.Join(root, "sub", "inlink")))
	p, err := confinePath(root, "sub/inlink", true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "target"), p)

	// With followFinal unset, a final-component link is not expanded.
	p, err = confinePath(root, "sub/inlink", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub", "inlink"), p)

	// Absolute links and relative links that climb out of the root are
	// rejected even when an intermediate component is the link.
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret"), filepath.Join(root, "abslink")))
	_, err = confinePath(root, "abslink", true)
	assert.Equal(t, ErrPathEscapes, err)

	require.NoError(t, os.Symlink("../../..", filepath.Join(root, "uplink")))
	_, err = confinePath(root, "uplink/etc", true)
	assert.Equal(t, ErrPathEscapes, err)
}

func TestConfinePathSymlinkLoop(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	root, err := ioutil.TempDir("", "confine")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	require.NoError(t, os.Symlink("b", filepath.Join(root, "a")))
	require.NoError(t, os.Symlink("a", filepath.Join(root, "b")))

	_, err = confinePath(root, "a", true)
	assert.Equal(t, syscall.ELOOP, err)
}
