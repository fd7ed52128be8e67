package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
	"github.com/tartampluch/go-addressbook/internal/storage"
)

// Importer merges vCards from a local file or an http(s) URL into a book.
type Importer struct {
	Fetcher     VCardFetcher
	Credentials Credentials // Optional; consulted only when a user is given.
}

// Import reads source and merges its cards into book.
// Existing records gain the phones they lack and a birthday when none is set;
// unknown names become new records. It returns the number of records added or changed.
func (im *Importer) Import(ctx context.Context, book *contacts.Book, source, user string) (int, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeySource, redactSource(source),
	)

	reader, err := im.open(ctx, source, user)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, err
	}
	defer func() { _ = reader.Close() }()

	records, err := storage.Decode(reader)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	touched := 0
	for _, incoming := range records {
		if merge(book, incoming) {
			touched++
		}
	}

	log.Info(config.MsgImportDone,
		config.LogKeyRecords, len(records),
		config.LogKeyTouched, touched,
	)
	return touched, nil
}

func (im *Importer) open(ctx context.Context, source, user string) (io.ReadCloser, error) {
	if source == "" {
		return nil, errors.New(config.ErrSourceEmpty)
	}
	if !isRemote(source) {
		return os.Open(source)
	}
	if im.Fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}

	auth := BasicAuth{User: user}
	if user != "" && im.Credentials != nil {
		if p, err := im.Credentials.Password(user); err == nil {
			auth.Pass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyUser, user,
				config.LogKeyError, err)
		}
	}
	return im.Fetcher.Fetch(ctx, source, auth)
}

// merge folds incoming into book and reports whether anything changed.
func merge(book *contacts.Book, incoming *contacts.Record) bool {
	existing, ok := book.Find(incoming.Name().String())
	if !ok {
		book.AddRecord(incoming)
		return true
	}

	changed := false
	for _, p := range incoming.Phones() {
		if _, found := existing.FindPhone(p.String()); found {
			continue
		}
		// Already validated by the decoder.
		if err := existing.AddPhone(p.String()); err == nil {
			changed = true
		}
	}
	if _, has := existing.Birthday(); !has {
		if b, ok := incoming.Birthday(); ok {
			existing.SetBirthday(b)
			changed = true
		}
	}
	return changed
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, config.SchemeHTTP+"://") || strings.HasPrefix(lower, config.SchemeHTTPS+"://")
}

// redactSource keeps credentials and query tokens out of the logs.
func redactSource(source string) string {
	if !isRemote(source) {
		return source
	}
	u, err := url.Parse(source)
	if err != nil {
		return config.ErrInvalidURL
	}
	return u.Scheme + "://" + u.Host + u.Path
}
