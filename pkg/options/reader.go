// SPDX-License-Identifier: MPL-2.0

package options

import (
	"errors"
	"time"

	"github.com/spf13/pflag"
)

// Reader reads the options of one shard into plain values, collecting errors
// instead of returning them per call. Check Err once after filling a struct.
type Reader struct {
	view View
	errs []error
}

// NewReader returns a Reader over the View of fs for shard.
func NewReader(fs *pflag.FlagSet, shard string) *Reader {
	return &Reader{view: NewView(fs, shard)}
}

// View returns the underlying View.
func (r *Reader) View() View { return r.view }

// IsSet reports whether the option has a value.
func (r *Reader) IsSet(name string) bool { return r.view.IsSet(name) }

// String reads a value in its textual form.
func (r *Reader) String(name string) string { return collect(r, r.view.String, name) }

// Int reads an int option.
func (r *Reader) Int(name string) int { return collect(r, r.view.Int, name) }

// Float reads a float option.
func (r *Reader) Float(name string) float64 { return collect(r, r.view.Float, name) }

// Bool reads a bool option.
func (r *Reader) Bool(name string) bool { return collect(r, r.view.Bool, name) }

// Duration reads a duration option.
func (r *Reader) Duration(name string) time.Duration { return collect(r, r.view.Duration, name) }

// Seconds reads a float option holding seconds.
func (r *Reader) Seconds(name string) time.Duration {
	return time.Duration(r.Float(name) * float64(time.Second))
}

// Err returns the joined read errors, or nil.
func (r *Reader) Err() error { return errors.Join(r.errs...) }

func collect[T any](r *Reader, get func(string) (T, error), name string) T {
	v, err := get(name)
	if err != nil {
		r.errs = append(r.errs, err)
	}
	return v
}
