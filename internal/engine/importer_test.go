package engine_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/zalando/go-keyring"
)

// MockFetcher simulates the network layer using testify/mock.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.VCardFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, rawURL string, auth engine.BasicAuth) (io.ReadCloser, error) {
	args := m.Called(ctx, rawURL, auth)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

const importCards = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Ann\r\nTEL:1111111111\r\nTEL:2222222222\r\nBDAY:1990-06-12\r\nEND:VCARD\r\n" +
	"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Bob\r\nTEL:3333333333\r\nEND:VCARD\r\n" +
	"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Carol\r\nTEL:4444444444\r\nEND:VCARD\r\n"

// existingBook holds ann (one known phone, no birthday) and carol (already complete).
func existingBook(t *testing.T) *contacts.Book {
	t.Helper()
	book := contacts.NewBook()

	ann, err := contacts.NewRecord("ann")
	require.NoError(t, err)
	require.NoError(t, ann.AddPhone("1111111111"))
	book.AddRecord(ann)

	carol, err := contacts.NewRecord("carol")
	require.NoError(t, err)
	require.NoError(t, carol.AddPhone("4444444444"))
	book.AddRecord(carol)

	return book
}

func TestImport_LocalFileMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import"+config.ExtVCF)
	require.NoError(t, os.WriteFile(path, []byte(importCards), 0600))

	book := existingBook(t)
	im := &engine.Importer{}

	touched, err := im.Import(context.Background(), book, path, "")
	require.NoError(t, err)
	assert.Equal(t, 2, touched, "ann is enriched, bob is added, carol is unchanged")
	assert.Equal(t, 3, book.Len())

	ann, ok := book.Find("ann")
	require.True(t, ok)
	var phones []string
	for _, p := range ann.Phones() {
		phones = append(phones, p.String())
	}
	assert.Equal(t, []string{"1111111111", "2222222222"}, phones, "Known phones are not duplicated")
	bday, ok := ann.Birthday()
	require.True(t, ok)
	assert.Equal(t, "12.06.1990", bday.String())
}

func TestImport_KeepsExistingBirthday(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import"+config.ExtVCF)
	require.NoError(t, os.WriteFile(path, []byte(importCards), 0600))

	book := existingBook(t)
	ann, _ := book.Find("ann")
	require.NoError(t, ann.AddBirthday("01.01.1980"))

	_, err := (&engine.Importer{}).Import(context.Background(), book, path, "")
	require.NoError(t, err)

	bday, _ := ann.Birthday()
	assert.Equal(t, "01.01.1980", bday.String())
}

func TestImport_RemoteUsesKeyringPassword(t *testing.T) {
	keyring.MockInit()
	creds := engine.NewKeyringCredentials()
	require.NoError(t, creds.Store("ann", "s3cret"))

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://dav.example.com/book.vcf", engine.BasicAuth{User: "ann", Pass: "s3cret"}).
		Return(io.NopCloser(strings.NewReader(importCards)), nil)

	im := &engine.Importer{Fetcher: fetcher, Credentials: creds}
	touched, err := im.Import(context.Background(), contacts.NewBook(), "https://dav.example.com/book.vcf", "ann")

	require.NoError(t, err)
	assert.Equal(t, 3, touched)
	fetcher.AssertExpectations(t)
}

func TestImport_RemoteWithoutStoredPassword(t *testing.T) {
	keyring.MockInit()

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "http://example.com/a.vcf", engine.BasicAuth{User: "nobody"}).
		Return(io.NopCloser(strings.NewReader("")), nil)

	im := &engine.Importer{Fetcher: fetcher, Credentials: engine.NewKeyringCredentials()}
	touched, err := im.Import(context.Background(), contacts.NewBook(), "http://example.com/a.vcf", "nobody")

	require.NoError(t, err, "A missing password falls back to an empty one")
	assert.Equal(t, 0, touched)
	fetcher.AssertExpectations(t)
}

func TestImport_Errors(t *testing.T) {
	networkErr := errors.New("network unreachable")
	failing := new(MockFetcher)
	failing.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(nil, networkErr)

	tests := []struct {
		name    string
		im      *engine.Importer
		source  string
		wantErr error
		wantMsg string
	}{
		{"Empty source", &engine.Importer{}, "", nil, config.ErrSourceEmpty},
		{"Missing file", &engine.Importer{}, filepath.Join(t.TempDir(), "absent.vcf"), os.ErrNotExist, ""},
		{"No fetcher", &engine.Importer{}, "https://example.com/a.vcf", nil, config.ErrFetcherMissing},
		{"Network failure", &engine.Importer{Fetcher: failing}, "https://example.com/a.vcf", networkErr, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := contacts.NewBook()
			_, err := tt.im.Import(context.Background(), book, tt.source, "")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.Equal(t, 0, book.Len(), "A failed import leaves the book untouched")
		})
	}
}

func TestImport_ContextCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import"+config.ExtVCF)
	require.NoError(t, os.WriteFile(path, []byte(importCards), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	book := contacts.NewBook()
	_, err := (&engine.Importer{}).Import(ctx, book, path, "")
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 0, book.Len())
}
