package storage_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
	"github.com/tartampluch/go-addressbook/internal/storage"
)

// snapshot flattens a book into comparable values.
type snapshot struct {
	Phones   []string
	Birthday string
}

func flatten(book *contacts.Book) map[string]snapshot {
	out := make(map[string]snapshot)
	for _, r := range book.Records() {
		var s snapshot
		for _, p := range r.Phones() {
			s.Phones = append(s.Phones, p.String())
		}
		if b, ok := r.Birthday(); ok {
			s.Birthday = b.String()
		}
		out[r.Name().String()] = s
	}
	return out
}

func sampleBook(t *testing.T) *contacts.Book {
	t.Helper()
	book := contacts.NewBook()

	ann, err := contacts.NewRecord("Ann")
	require.NoError(t, err)
	require.NoError(t, ann.AddPhone("2222222222"))
	require.NoError(t, ann.AddPhone("1111111111"))
	require.NoError(t, ann.AddBirthday("29.02.2000"))
	book.AddRecord(ann)

	bob, err := contacts.NewRecord("bob")
	require.NoError(t, err)
	book.AddRecord(bob)

	olena, err := contacts.NewRecord("Олена")
	require.NoError(t, err)
	require.NoError(t, olena.AddBirthday("01.01.1900"))
	book.AddRecord(olena)

	return book
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DataFileName)
	book := sampleBook(t)

	require.NoError(t, storage.Save(book, path))

	restored, err := storage.Load(path)
	require.NoError(t, err)

	assert.Equal(t, flatten(book), flatten(restored))
	assert.Equal(t, []string{"2222222222", "1111111111"}, flatten(restored)["ann"].Phones, "Phone order is preserved")
}

func TestLoad_MissingFile(t *testing.T) {
	book, err := storage.Load(filepath.Join(t.TempDir(), "absent.vcf"))
	require.NoError(t, err, "A missing snapshot is not an error")
	assert.Equal(t, 0, book.Len())
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DataFileName)
	require.NoError(t, os.WriteFile(path, nil, 0600))

	book, err := storage.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, book.Len())
}

func TestLoad_DirectoryIsAnError(t *testing.T) {
	_, err := storage.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSnapshotRead)
}

func TestSave_OverwritesAndRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", config.DataFileName)

	require.NoError(t, storage.Save(sampleBook(t), path))
	require.NoError(t, storage.Save(contacts.NewBook(), path))

	restored, err := storage.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, restored.Len(), "Save replaces the whole snapshot")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "No temporary files are left behind")
}

func TestEncode_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, storage.Encode(&buf, sampleBook(t)))

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VCARD"))
	assert.Contains(t, out, "VERSION:4.0")
	assert.Contains(t, out, "FN:ann")
	assert.Contains(t, out, "TEL:2222222222")
	assert.Contains(t, out, "BDAY:2000-02-29")

	ann, err := contacts.NewName("ann")
	require.NoError(t, err)
	assert.Contains(t, out, "UID:"+storage.UID(ann))
}

func TestUID_Stable(t *testing.T) {
	a, _ := contacts.NewName("Ann")
	b, _ := contacts.NewName("ann")
	c, _ := contacts.NewName("bob")

	assert.Equal(t, storage.UID(a), storage.UID(b))
	assert.NotEqual(t, storage.UID(a), storage.UID(c))
}

func TestDecode_ForeignCards(t *testing.T) {
	content := "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:John Doe\r\nTEL:0501234567\r\nTEL:+380 50 123\r\nBDAY:19901025\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:3.0\r\nN:Smith;Jane;;;\r\nBDAY:--10-25\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:3.0\r\nTEL:0501234567\r\nEND:VCARD\r\n" +
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Iso\r\nBDAY:1990-10-25T00:00:00Z\r\nEND:VCARD\r\n"

	records, err := storage.Decode(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, records, 3, "The card without any name is skipped")

	john := records[0]
	assert.Equal(t, "john doe", john.Name().String())
	require.Len(t, john.Phones(), 1, "Invalid phones are dropped, valid ones kept")
	assert.Equal(t, "0501234567", john.Phones()[0].String())
	bday, ok := john.Birthday()
	require.True(t, ok)
	assert.Equal(t, "25.10.1990", bday.String())

	jane := records[1]
	assert.True(t, strings.HasPrefix(jane.Name().String(), "smith"), "N is used when FN is missing")
	_, ok = jane.Birthday()
	assert.False(t, ok, "Dates without a year cannot become a birthday")

	iso, ok := records[2].Birthday()
	require.True(t, ok)
	assert.Equal(t, "25.10.1990", iso.String())
}
