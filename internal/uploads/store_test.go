package uploads

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munchkineatter/DrawDrum/internal/domain"
)

func testUploads(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func TestSave(t *testing.T) {
	s := testUploads(t)

	name, err := s.Save("image/png", "company.png", strings.NewReader("png bytes"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^logo_[0-9a-f]{8}\.png$`), name)

	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))
}

func TestSave_ExtensionFallback(t *testing.T) {
	s := testUploads(t)

	// No extension on the original name: fall back to the content type's.
	name, err := s.Save("image/webp", "logo", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".webp"), "got %q", name)
}

func TestSave_UniqueNames(t *testing.T) {
	s := testUploads(t)

	a, err := s.Save("image/png", "a.png", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := s.Save("image/png", "a.png", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSave_RejectsUnsupportedType(t *testing.T) {
	s := testUploads(t)

	for _, ct := range []string{"image/svg+xml", "application/pdf", "text/html", ""} {
		_, err := s.Save(ct, "file", strings.NewReader("x"))
		assert.ErrorIs(t, err, domain.ErrUnsupportedImage, "content type %q", ct)
	}
}

func TestRemove(t *testing.T) {
	s := testUploads(t)

	name, err := s.Save("image/gif", "anim.gif", strings.NewReader("gif"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(s.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	// Removing again is not an error.
	assert.NoError(t, s.Remove(name))
}

func TestPath_RejectsTraversal(t *testing.T) {
	s := testUploads(t)

	for _, name := range []string{"", "../secret", "a/b.png", "..", "/etc/passwd"} {
		_, err := s.Path(name)
		assert.ErrorIs(t, err, domain.ErrUploadNotFound, "name %q", name)
	}
}

func TestOpen(t *testing.T) {
	s := testUploads(t)

	name, err := s.Save("image/jpeg", "photo.jpg", strings.NewReader("jpeg"))
	require.NoError(t, err)

	f, err := s.Open(name)
	require.NoError(t, err)
	f.Close()

	_, err = s.Open("logo_00000000.png")
	assert.ErrorIs(t, err, domain.ErrUploadNotFound)
}
