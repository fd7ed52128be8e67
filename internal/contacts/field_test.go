package contacts_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/contacts"
)

func TestNewName(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"Lowercased", "Ann", "ann", false},
		{"Already normalized", "bob", "bob", false},
		{"Surrounding spaces", "  Eve ", "eve", false},
		{"Cyrillic", "Олена", "олена", false},
		{"Empty", "", "", true},
		{"Blank", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := contacts.NewName(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, contacts.ErrValidation)

				var ve *contacts.ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, contacts.FieldName, ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestNewPhone(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"Ten digits", "0123456789", true},
		{"All nines", "9999999999", true},
		{"Nine digits", "012345678", false},
		{"Eleven digits", "01234567890", false},
		{"Letters", "01234abcde", false},
		{"Plus prefix", "+123456789", false},
		{"Spaces", "012 345 67", false},
		{"Trailing newline", "0123456789\n", false},
		{"Arabic-Indic digits", "٠١٢٣٤٥٦٧٨٩", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := contacts.NewPhone(tt.raw)
			if !tt.valid {
				assert.ErrorIs(t, err, contacts.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, p.String(), "Rendered value must equal the input")
		})
	}
}

func TestNewBirthday(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
		want  time.Time
	}{
		{"Regular date", "15.03.1990", true, time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"Leap day", "29.02.2000", true, time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"Far past", "01.01.1800", true, time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"Impossible day", "30.02.2023", false, time.Time{}},
		{"Leap day in common year", "29.02.2023", false, time.Time{}},
		{"ISO layout", "1990-03-15", false, time.Time{}},
		{"Month 13", "01.13.1990", false, time.Time{}},
		{"Garbage", "tomorrow", false, time.Time{}},
		{"Empty", "", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := contacts.NewBirthday(tt.raw)
			if !tt.valid {
				assert.ErrorIs(t, err, contacts.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, b.String())
			assert.Equal(t, tt.want, b.Date())
		})
	}
}

func TestBirthdayFromDate(t *testing.T) {
	b := contacts.BirthdayFromDate(time.Date(1985, 7, 4, 18, 30, 0, 0, time.FixedZone("X", 3*3600)))
	assert.Equal(t, "04.07.1985", b.String())
	assert.Equal(t, time.Date(1985, 7, 4, 0, 0, 0, 0, time.UTC), b.Date())
}

func TestErrors_Messages(t *testing.T) {
	_, err := contacts.NewPhone("123")
	assert.Contains(t, err.Error(), "123")

	nf := &contacts.NotFoundError{Field: contacts.FieldPhone, Value: "0123456789"}
	assert.ErrorIs(t, nf, contacts.ErrNotFound)
	assert.Contains(t, nf.Error(), "phone number not found")

	nf = &contacts.NotFoundError{Field: contacts.FieldName, Value: "ann"}
	assert.Contains(t, nf.Error(), "contact not found")
}
