package share

import "github.com/atotto/clipboard"

// Clipboard is the platform copy primitive
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard copies through the desktop clipboard
type SystemClipboard struct{}

// WriteAll copies text
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard utility was found
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}
