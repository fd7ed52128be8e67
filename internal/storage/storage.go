// Package storage persists the whole contact book as a single vCard snapshot.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
)

// Load restores the book saved at path.
// A missing file is not an error: it yields an empty book.
func Load(path string) (*contacts.Book, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, path,
	)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(config.MsgSnapshotNew)
		return contacts.NewBook(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSnapshotRead, err)
	}
	defer func() { _ = f.Close() }()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSnapshotRead, err)
	}

	book := contacts.NewBook()
	for _, r := range records {
		book.AddRecord(r)
	}
	log.Info(config.MsgSnapshotLoad, config.LogKeyRecords, book.Len())
	return book, nil
}

// Save writes the whole book to path, replacing any previous snapshot.
// The data goes to a temporary file in the same directory first, so a failed
// write never truncates the existing snapshot.
func Save(book *contacts.Book, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, config.TempFilePattern)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	// Removing after a successful rename fails harmlessly.
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := bufio.NewWriter(tmp)
	if err := Encode(w, book); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	if err := tmp.Chmod(config.FilePermUserRW); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}

	slog.Info(config.MsgSnapshotSave,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, path,
		config.LogKeyRecords, book.Len(),
	)
	return nil
}

// UID returns the stable identifier of a contact, derived from its normalized name.
func UID(name contacts.Name) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(config.UIDNamespace+name.String())).String()
}

// Encode writes one vCard 4.0 per record, in name order.
func Encode(w io.Writer, book *contacts.Book) error {
	enc := vcard.NewEncoder(w)
	for _, r := range book.Records() {
		if err := enc.Encode(toCard(r)); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}

func toCard(r *contacts.Record) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(config.VCardVersion, config.VCardVersion4)
	card.SetValue(config.VCardUID, UID(r.Name()))
	card.SetValue(config.VCardFN, r.Name().String())
	for _, p := range r.Phones() {
		card.AddValue(config.VCardTEL, p.String())
	}
	if b, ok := r.Birthday(); ok {
		card.SetValue(config.VCardBDAY, b.Date().Format(config.DateFormatFullDash))
	}
	return card
}

// Decode reads every vCard of r and converts it into a record.
// Cards without a usable name are skipped, as are phones and birthdays that
// fail validation: the rest of the card is kept.
func Decode(r io.Reader) ([]*contacts.Record, error) {
	dec := vcard.NewDecoder(r)
	var records []*contacts.Record

	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		rec, err := fromCard(card)
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyError, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func fromCard(card vcard.Card) (*contacts.Record, error) {
	name := card.Value(config.VCardFN)
	if name == "" {
		name = card.Value(config.VCardN)
	}
	rec, err := contacts.NewRecord(name)
	if err != nil {
		return nil, err
	}

	for _, tel := range card.Values(config.VCardTEL) {
		if err := rec.AddPhone(tel); err != nil {
			slog.Warn(config.MsgSkippedPhone,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyName, rec.Name().String(),
				config.LogKeyValue, tel)
		}
	}

	if bday := card.Value(config.VCardBDAY); bday != "" {
		if d, err := parseDate(bday); err == nil {
			rec.SetBirthday(contacts.BirthdayFromDate(d))
		} else {
			slog.Warn(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyName, rec.Name().String(),
				config.LogKeyValue, bday)
		}
	}
	return rec, nil
}

// parseDate handles the BDAY layouts found in the wild plus the user-facing one.
// Dates without a year (--MM-DD) cannot form a Birthday and are rejected.
func parseDate(value string) (time.Time, error) {
	formats := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
		config.DateFormatBirthday,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(config.ErrDateParse)
}
