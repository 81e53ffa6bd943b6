package main

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestCheckIndexRange(t *testing.T) {
	tests := []struct {
		name    string
		start   uint32
		count   uint32
		wantErr bool
	}{
		{"single", 0, 1, false},
		{"several", 10, 5, false},
		{"last index", math.MaxUint32, 1, false},
		{"ends on last index", math.MaxUint32 - 1, 2, false},
		{"zero count", 0, 0, true},
		{"wraps past last index", math.MaxUint32, 2, true},
		{"full range from two", 2, math.MaxUint32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			err := checkIndexRange(tt.start, tt.count)
			if tt.wantErr {
				is.True(errors.Is(err, errInvalid))
				return
			}
			is.NoErr(err)
		})
	}
}
