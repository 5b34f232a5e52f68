package file

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode/utf32"
)

type stubDetector struct {
	charset string
	err     error
}

func (s stubDetector) Detect(b []byte) (string, error) {
	return s.charset, s.err
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func encode(t *testing.T, enc encoding.Encoding, s string) []byte {
	t.Helper()
	b, err := enc.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Hello world", StripTags("<p>Hello <b>world</b></p>"))
	assert.Equal(t, "a  b", StripTags(`a <s id="1"> b`))
	assert.Equal(t, "no tags", StripTags("no tags"))
	// the minimal span between < and the next > is removed
	assert.Equal(t, "1  3", StripTags("1 < 2 > 3<x>"))
	assert.Equal(t, "a > b", StripTags("a > b"))
	// nested tags are not specially handled
	assert.Equal(t, "b>", StripTags("<a<x>b>"))
}

func TestLoadUTF8(t *testing.T) {
	path := writeFile(t, []byte("<text id=\"1\">Café au lait</text>"))

	text, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Café au lait", text)
}

func TestLoadUTF8BOM(t *testing.T) {
	path := writeFile(t, append([]byte{0xEF, 0xBB, 0xBF}, []byte("plain")...))

	text, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", text)
}

func TestLoadDetectedCharset(t *testing.T) {
	path := writeFile(t, latin1(t, "<p>Le café est très chaud</p>"))

	l := &Loader{Detector: stubDetector{charset: "ISO-8859-1"}}
	text, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Le café est très chaud", text)
}

func TestLoadHTMLCharsetLabel(t *testing.T) {
	path := writeFile(t, latin1(t, "Åbenrå"))

	l := &Loader{Detector: stubDetector{charset: "Windows-1252"}}
	text, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Åbenrå", text)
}

func TestLoadChardet(t *testing.T) {
	s := strings.Repeat("Le garçon a mangé une crème brûlée à côté de la forêt. ", 20)
	path := writeFile(t, latin1(t, s))

	text, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Contains(t, text, "garçon")
}

func TestLoadDecodeError(t *testing.T) {
	path := writeFile(t, []byte{0xff, 0xfe, 0xfd, 0x00, 0x80})

	l := &Loader{Detector: stubDetector{charset: "x-no-such-charset"}}
	_, err := l.Load(path)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, path, de.Path)
	assert.Equal(t, "x-no-such-charset", de.Charset)
}

func TestLoadDetectionFails(t *testing.T) {
	path := writeFile(t, []byte{0xff, 0xfe, 0xfd})

	l := &Loader{Detector: stubDetector{err: errors.New("no match")}}
	_, err := l.Load(path)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Empty(t, de.Charset)
	assert.ErrorContains(t, err, "no match")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	var de *DecodeError
	assert.False(t, errors.As(err, &de))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadNFC(t *testing.T) {
	path := writeFile(t, []byte("Cafe\u0301"))

	l := NewLoader()
	l.NFC = true
	text, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", text)
}

func TestLoadGB18030(t *testing.T) {
	s := strings.Repeat("我们的国家是一个伟大的国家，人民在这里生活和工作。中国的经济发展很快。", 20)
	path := writeFile(t, encode(t, simplifiedchinese.GB18030, "<p>"+s+"</p>"))

	text, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, text)
}

func TestLoadDetectorNames(t *testing.T) {
	tests := []struct {
		charset string
		data    []byte
	}{
		{"GB-18030", encode(t, simplifiedchinese.GB18030, "中文文本")},
		{"UTF-32LE", encode(t, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM), "中文文本")},
		{"UTF-32BE", encode(t, utf32.UTF32(utf32.BigEndian, utf32.UseBOM), "中文文本")},
	}

	for _, tt := range tests {
		t.Run(tt.charset, func(t *testing.T) {
			l := &Loader{Detector: stubDetector{charset: tt.charset}}
			text, err := l.Load(writeFile(t, tt.data))
			require.NoError(t, err)
			assert.Equal(t, "中文文本", text)
		})
	}
}

func TestLoadDetectedUTF8OnInvalidBytes(t *testing.T) {
	path := writeFile(t, []byte{'a', 0xff, 'b'})

	for _, name := range []string{"UTF-8", "utf8"} {
		l := &Loader{Detector: stubDetector{charset: name}}
		_, err := l.Load(path)

		var de *DecodeError
		require.True(t, errors.As(err, &de), name)
		assert.Equal(t, name, de.Charset)
	}
}
