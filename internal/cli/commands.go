package cli

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
)

var (
	errMissingArgs = errors.New(config.TKeyErrArgs)
	errBadDays     = errors.New(config.TKeyErrDays)
)

// failure carries an error whose message should be shown under a specific key.
type failure struct {
	key string
	err error
}

func (f *failure) Error() string { return f.key + ": " + f.err.Error() }
func (f *failure) Unwrap() error { return f.err }

// result is the outcome of one command.
type result struct {
	reply   string
	mutated bool
}

type handler func(s *Session, ctx context.Context, args []string) (result, error)

var handlers = map[string]handler{
	config.CmdHello:        (*Session).hello,
	config.CmdHelp:         (*Session).help,
	config.CmdAdd:          (*Session).add,
	config.CmdChange:       (*Session).change,
	config.CmdPhone:        (*Session).phone,
	config.CmdDelete:       (*Session).remove,
	config.CmdShow:         (*Session).show,
	config.CmdAddBirthday:  (*Session).addBirthday,
	config.CmdShowBirthday: (*Session).showBirthday,
	config.CmdBirthdays:    (*Session).birthdays,
	config.CmdAll:          (*Session).all,
	config.CmdExportICS:    (*Session).exportICS,
	config.CmdImport:       (*Session).importCards,
}

func need(args []string, n int) error {
	if len(args) < n {
		return errMissingArgs
	}
	return nil
}

func (s *Session) find(name string) (*contacts.Record, error) {
	r, ok := s.Book.Find(name)
	if !ok {
		return nil, &contacts.NotFoundError{Field: contacts.FieldName, Value: name}
	}
	return r, nil
}

func (s *Session) say(key string) result {
	return result{reply: s.Translator.Msg(key, nil)}
}

func (s *Session) hello(context.Context, []string) (result, error) {
	return s.say(config.TKeyHello), nil
}

func (s *Session) help(context.Context, []string) (result, error) {
	return s.say(config.TKeyHelp), nil
}

// add creates the contact if needed and appends the optional phone.
// A rejected phone leaves the book unchanged.
func (s *Session) add(_ context.Context, args []string) (result, error) {
	if err := need(args, 1); err != nil {
		return result{}, err
	}

	key := config.TKeyContactUpdated
	record, ok := s.Book.Find(args[0])
	if !ok {
		var err error
		if record, err = contacts.NewRecord(args[0]); err != nil {
			return result{}, err
		}
		key = config.TKeyContactAdded
	}

	if len(args) > 1 {
		if err := record.AddPhone(args[1]); err != nil {
			return result{}, err
		}
	}
	if !ok {
		s.Book.AddRecord(record)
	}

	res := s.say(key)
	res.mutated = true
	return res, nil
}

func (s *Session) change(_ context.Context, args []string) (result, error) {
	if err := need(args, 3); err != nil {
		return result{}, err
	}
	record, err := s.find(args[0])
	if err != nil {
		return result{}, err
	}
	if err := record.EditPhone(args[1], args[2]); err != nil {
		return result{}, err
	}
	res := s.say(config.TKeyContactChanged)
	res.mutated = true
	return res, nil
}

func (s *Session) phone(_ context.Context, args []string) (result, error) {
	if err := need(args, 1); err != nil {
		return result{}, err
	}
	record, err := s.find(args[0])
	if err != nil {
		return result{}, err
	}

	phones := record.Phones()
	if len(phones) == 0 {
		return s.say(config.TKeyNoPhones), nil
	}
	values := make([]string, len(phones))
	for i, p := range phones {
		values[i] = p.String()
	}
	return result{reply: strings.Join(values, config.PhoneSeparator)}, nil
}

func (s *Session) remove(_ context.Context, args []string) (result, error) {
	if err := need(args, 1); err != nil {
		return result{}, err
	}
	if err := s.Book.Delete(args[0]); err != nil {
		return result{}, err
	}
	res := s.say(config.TKeyContactDeleted)
	res.mutated = true
	return res, nil
}

func (s *Session) show(_ context.Context, args []string) (result, error) {
	if err := need(args, 1); err != nil {
		return result{}, err
	}
	record, err := s.find(args[0])
	if err != nil {
		return result{}, err
	}
	return result{reply: record.String()}, nil
}

func (s *Session) addBirthday(_ context.Context, args []string) (result, error) {
	if err := need(args, 2); err != nil {
		return result{}, err
	}
	record, err := s.find(args[0])
	if err != nil {
		return result{}, err
	}
	if err := record.AddBirthday(args[1]); err != nil {
		return result{}, err
	}
	res := s.say(config.TKeyBirthdayAdded)
	res.mutated = true
	return res, nil
}

func (s *Session) showBirthday(_ context.Context, args []string) (result, error) {
	if err := need(args, 1); err != nil {
		return result{}, err
	}
	record, err := s.find(args[0])
	if err != nil {
		return result{}, err
	}
	b, ok := record.Birthday()
	if !ok {
		return s.say(config.TKeyBirthdayUnset), nil
	}
	return result{reply: b.String()}, nil
}

func (s *Session) birthdays(_ context.Context, args []string) (result, error) {
	days := s.Days
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 || n > config.MaxReminderDays {
			return result{}, errBadDays
		}
		days = n
	}

	reminders := s.Book.UpcomingBirthdays(s.Clock.Now(), days)
	if len(reminders) == 0 {
		return s.say(config.TKeyNoBirthdays), nil
	}

	lines := make([]string, len(reminders))
	for i, r := range reminders {
		lines[i] = s.Translator.Msg(config.TKeyReminderLine, map[string]any{
			"Name": r.Name,
			"Date": r.CongratulationDate(),
		})
	}
	return result{reply: strings.Join(lines, "\n")}, nil
}

func (s *Session) all(context.Context, []string) (result, error) {
	if s.Book.Len() == 0 {
		return s.say(config.TKeyNoContacts), nil
	}
	return result{reply: s.Book.String()}, nil
}

func (s *Session) exportICS(_ context.Context, args []string) (result, error) {
	if err := need(args, 1); err != nil {
		return result{}, err
	}
	data, err := s.Generator.Calendar(s.Book)
	if err != nil {
		return result{}, &failure{key: config.TKeyErrExport, err: err}
	}
	if err := os.WriteFile(args[0], data, config.FilePermUserRW); err != nil {
		return result{}, &failure{key: config.TKeyErrExport, err: err}
	}
	return result{reply: s.Translator.Msg(config.TKeyExported, map[string]any{"Path": args[0]})}, nil
}

func (s *Session) importCards(ctx context.Context, args []string) (result, error) {
	if err := need(args, 1); err != nil {
		return result{}, err
	}
	var user string
	if len(args) > 1 {
		user = args[1]
	}

	touched, err := s.Importer.Import(ctx, s.Book, args[0], user)
	if err != nil {
		return result{}, &failure{key: config.TKeyErrImport, err: err}
	}
	return result{
		reply:   s.Translator.Msg(config.TKeyImported, map[string]any{"Count": touched}),
		mutated: touched > 0,
	}, nil
}

// explain turns a command error into a localized message.
func (s *Session) explain(err error) string {
	var (
		invalid  *contacts.ValidationError
		missing  *contacts.NotFoundError
		reported *failure
	)
	switch {
	case errors.Is(err, errMissingArgs):
		return s.Translator.Msg(config.TKeyErrArgs, nil)
	case errors.Is(err, errBadDays):
		return s.Translator.Msg(config.TKeyErrDays, nil)
	case errors.As(err, &reported):
		return s.Translator.Msg(reported.key, map[string]any{"Error": reported.err.Error()})
	case errors.As(err, &invalid):
		switch invalid.Field {
		case contacts.FieldPhone:
			return s.Translator.Msg(config.TKeyErrPhone, nil)
		case contacts.FieldBirthday:
			return s.Translator.Msg(config.TKeyErrBirthday, nil)
		default:
			return s.Translator.Msg(config.TKeyErrName, nil)
		}
	case errors.As(err, &missing):
		if missing.Field == contacts.FieldPhone {
			return s.Translator.Msg(config.TKeyErrNoPhone, nil)
		}
		return s.Translator.Msg(config.TKeyErrNoContact, nil)
	default:
		return s.Translator.Msg(config.TKeyErrUnexpected, map[string]any{"Error": err.Error()})
	}
}
