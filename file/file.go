package file

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/unicode/norm"
)

var (
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// detectorNames maps the chardet names unknown to the IANA and WHATWG
// indexes.
var detectorNames = map[string]encoding.Encoding{
	"GB-18030": simplifiedchinese.GB18030,
	"UTF-32BE": utf32.UTF32(utf32.BigEndian, utf32.UseBOM),
	"UTF-32LE": utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
}

// DecodeError is returned when the bytes of a file can not be decoded, even
// after charset detection. It is recoverable: the file should be skipped.
type DecodeError struct {
	Path    string
	Charset string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Charset == "" {
		return fmt.Sprintf("cannot decode %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot decode %s as %s: %v", e.Path, e.Charset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Detector guesses the charset of raw bytes.
type Detector interface {
	Detect(b []byte) (string, error)
}

// ChardetDetector detects charsets with byte frequency statistics.
type ChardetDetector struct {
	d *chardet.Detector
}

func NewChardetDetector() *ChardetDetector {
	return &ChardetDetector{d: chardet.NewTextDetector()}
}

func (c *ChardetDetector) Detect(b []byte) (string, error) {
	res, err := c.d.DetectBest(b)
	if err != nil {
		return "", err
	}
	return res.Charset, nil
}

// Loader reads text files of arbitrary encoding.
type Loader struct {
	Detector Detector

	// NFC normalizes the decoded text to Unicode NFC
	NFC bool
}

func NewLoader() *Loader {
	return &Loader{Detector: NewChardetDetector()}
}

// Load reads the file at path and returns its decoded text with markup tags
// removed. UTF-8 is tried first; otherwise the detected charset is used.
func (l *Loader) Load(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("IO error: %w", err)
	}

	text, err := l.Decode(b)
	if err != nil {
		return "", &DecodeError{Path: path, Charset: charsetOf(err), Err: err}
	}

	if l.NFC {
		text = norm.NFC.String(text)
	}

	return StripTags(text), nil
}

// charsetError carries the charset name that failed.
type charsetError struct {
	charset string
	err     error
}

func (e *charsetError) Error() string { return e.err.Error() }
func (e *charsetError) Unwrap() error { return e.err }

func charsetOf(err error) string {
	if ce, ok := err.(*charsetError); ok {
		return ce.charset
	}
	return ""
}

// Decode converts raw bytes to a string.
func (l *Loader) Decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(bytes.TrimPrefix(b, utf8BOM)), nil
	}

	det := l.Detector
	if det == nil {
		det = NewChardetDetector()
	}

	name, err := det.Detect(b)
	if err != nil {
		return "", fmt.Errorf("charset detection: %w", err)
	}

	// b already failed the UTF-8 check; a UTF-8 decoder would only
	// replace the bad bytes with U+FFFD
	if isUTF8(name) {
		return "", &charsetError{charset: name, err: fmt.Errorf("invalid UTF-8 bytes")}
	}

	enc, err := lookup(name)
	if err != nil {
		return "", &charsetError{charset: name, err: err}
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", &charsetError{charset: name, err: err}
	}

	if !utf8.Valid(out) {
		return "", &charsetError{charset: name, err: fmt.Errorf("decoded text is not valid UTF-8")}
	}

	return string(out), nil
}

func lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, fmt.Errorf("no charset detected")
	}

	if enc, ok := detectorNames[strings.ToUpper(name)]; ok {
		return enc, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err == nil && enc != nil {
		return enc, nil
	}

	enc, err = htmlindex.Get(strings.ToLower(name))
	if err == nil && enc != nil {
		return enc, nil
	}

	return nil, fmt.Errorf("unsupported charset %q", name)
}

func isUTF8(name string) bool {
	n := strings.ReplaceAll(strings.ToLower(name), "-", "")
	return n == "utf8"
}

// StripTags removes all <...> markup. Nested or malformed tags are not
// handled specially.
func StripTags(text string) string {
	return tagRe.ReplaceAllString(text, "")
}
