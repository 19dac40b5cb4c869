// Package caps models media format descriptions ("caps") as reported by a
// pipeline engine: a media type name plus typed fields.
package caps

import (
	"strings"
)

// Media type prefixes.
const (
	VideoPrefix = "video/"
	AudioPrefix = "audio/"
)

// Common field names.
const (
	FieldWidth     = "width"
	FieldHeight    = "height"
	FieldFramerate = "framerate"
	FieldFormat    = "format"
	FieldRate      = "rate"
	FieldChannels  = "channels"
)

// Structure is a single caps structure, e.g. "video/x-raw" with its fields.
// Field values are int, float64, bool, string or Fraction.
type Structure struct {
	Name   string
	fields map[string]any
	keys   []string // insertion order
}

// NewStructure creates an empty structure with the given media type.
func NewStructure(name string) *Structure {
	return &Structure{
		Name:   name,
		fields: make(map[string]any),
	}
}

// Set stores a field value, keeping first-insertion order.
// It returns the structure to allow chaining.
func (s *Structure) Set(key string, value any) *Structure {
	if _, ok := s.fields[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.fields[key] = value
	return s
}

// Get returns the raw field value.
func (s *Structure) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.fields[key]
	return v, ok
}

// Keys returns the field names in insertion order.
func (s *Structure) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of fields.
func (s *Structure) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Int returns an integer field.
func (s *Structure) Int(key string) (int, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// Float returns a floating point field. Integer fields are converted.
func (s *Structure) Float(key string) (float64, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Str returns a string field.
func (s *Structure) Str(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Bool returns a boolean field.
func (s *Structure) Bool(key string) (bool, bool) {
	v, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Fraction returns a fraction field.
func (s *Structure) Fraction(key string) (Fraction, bool) {
	v, ok := s.Get(key)
	if !ok {
		return Fraction{}, false
	}
	f, ok := v.(Fraction)
	return f, ok
}

// IsVideo reports whether the structure describes a video stream.
func (s *Structure) IsVideo() bool {
	return s != nil && strings.HasPrefix(s.Name, VideoPrefix)
}

// IsAudio reports whether the structure describes an audio stream.
func (s *Structure) IsAudio() bool {
	return s != nil && strings.HasPrefix(s.Name, AudioPrefix)
}

// ToMap converts the structure fields into a plain dictionary.
// Fractions are stored as [2]int{numerator, denominator}.
func (s *Structure) ToMap() map[string]any {
	if s == nil {
		return nil
	}
	d := make(map[string]any, len(s.keys))
	for _, k := range s.keys {
		v := s.fields[k]
		if f, ok := v.(Fraction); ok {
			d[k] = [2]int{f.Num, f.Den}
			continue
		}
		d[k] = v
	}
	return d
}

// Dimensions returns width and height, or (0, 0) if either is missing.
func (s *Structure) Dimensions() (width, height int) {
	w, okW := s.Int(FieldWidth)
	h, okH := s.Int(FieldHeight)
	if !okW || !okH {
		return 0, 0
	}
	return w, h
}

// Framerate returns the framerate in frames per second, 0 if unknown.
func (s *Structure) Framerate() float64 {
	f, ok := s.Fraction(FieldFramerate)
	if !ok {
		return 0
	}
	return f.Float64()
}
