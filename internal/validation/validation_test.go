package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wom/internal/dberr"
	"github.com/MrJamesThe3rd/wom/internal/validation"
)

type sample struct {
	Name   string  `validate:"required,max=5"`
	Prefix *string `validate:"omitempty,len=6,number"`
	Count  int     `validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	prefix := "978123"
	short := "97"

	tests := []struct {
		name    string
		in      sample
		wantErr bool
		field   string
	}{
		{name: "Valid", in: sample{Name: "abc", Prefix: &prefix}},
		{name: "NilOptional", in: sample{Name: "abc"}},
		{name: "MissingName", in: sample{}, wantErr: true, field: "Name"},
		{name: "NameTooLong", in: sample{Name: "abcdef"}, wantErr: true, field: "Name"},
		{name: "BadPrefix", in: sample{Name: "abc", Prefix: &short}, wantErr: true, field: "Prefix"},
		{name: "NegativeCount", in: sample{Name: "abc", Count: -1}, wantErr: true, field: "Count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.in)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, dberr.ErrValidation)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
