// Package seed provides the entropy sources used to key the generators in
// this module. A Generator mints seed bytes on demand; Default is the chain
// the generator constructors fall back on when the caller does not pick a
// source explicitly.
package seed

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/sha3"
)

// DefaultDevicePath is the entropy device Device falls back on when no
// path is configured.
const DefaultDevicePath = "/dev/urandom"

// ErrUnavailable reports that a source could not deliver entropy. Wrapped
// errors carry the underlying cause; match with errors.Is.
var ErrUnavailable = errors.New("seed: entropy source unavailable")

// Generator mints n bytes of seed material.
type Generator interface {
	GenerateSeed(n int) ([]byte, error)
}

// Crypto draws from the platform CSPRNG via crypto/rand. A non-nil Reader
// overrides the entropy stream, which tests use to force failures.
type Crypto struct {
	Reader io.Reader
}

func (c Crypto) GenerateSeed(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("seed: invalid seed length %d", n)
	}
	r := c.Reader
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("seed: %w: crypto source: %v", ErrUnavailable, err)
	}
	return b, nil
}

// Device reads entropy from a device file such as /dev/urandom.
type Device struct {
	Path string
}

func (d Device) GenerateSeed(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("seed: invalid seed length %d", n)
	}
	path := d.Path
	if path == "" {
		path = DefaultDevicePath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w: open %s: %v", ErrUnavailable, path, err)
	}
	defer f.Close()
	b := make([]byte, n)
	if _, err := io.ReadFull(f, b); err != nil {
		return nil, fmt.Errorf("seed: %w: read %s: %v", ErrUnavailable, path, err)
	}
	return b, nil
}

// Phrase derives seed bytes from a passphrase with SHAKE-256. The same
// phrase always yields the same bytes, and any requested length is a prefix
// of the longer ones, so generators keyed this way replay identical streams
// across runs.
type Phrase struct {
	Phrase string
}

func (p Phrase) GenerateSeed(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("seed: invalid seed length %d", n)
	}
	if p.Phrase == "" {
		return nil, errors.New("seed: empty passphrase")
	}
	b := make([]byte, n)
	sha3.ShakeSum256(b, []byte(p.Phrase))
	return b, nil
}

// Chain tries each source in order and returns the first success.
type Chain []Generator

func (c Chain) GenerateSeed(n int) ([]byte, error) {
	var errs []error
	for _, g := range c {
		b, err := g.GenerateSeed(n)
		if err == nil {
			return b, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("seed: %w: empty source chain", ErrUnavailable)
	}
	return nil, fmt.Errorf("seed: %w: all sources failed: %v", ErrUnavailable, errors.Join(errs...))
}

// Default is the seeding strategy used when nothing else is configured:
// the platform CSPRNG first, then the urandom device.
var Default Generator = Chain{Crypto{}, Device{}}
