package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

// Publisher receives every freshly rendered calendar.
type Publisher interface {
	Update(data []byte)
}

// Session owns the book for the lifetime of the loop; nothing else mutates it.
type Session struct {
	Book       *contacts.Book
	Clock      contacts.Clock
	Out        io.Writer
	Translator *Translator
	Generator  *engine.Generator
	Importer   *engine.Importer
	Publisher  Publisher // Optional.
	Days       int
}

// Run reads commands from in until EOF, exit/close, or ctx cancellation.
// Command errors are reported to Out and never end the loop. Saving is left to the caller.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	log := slog.With(config.LogKeyComponent, config.CompSession)
	log.Info(config.MsgSessionStart, config.LogKeyRecords, s.Book.Len())
	defer log.Info(config.MsgSessionEnd)

	s.Publish()
	s.println(s.Translator.Msg(config.TKeyWelcome, nil))

	// Releases the reader goroutine once the loop returns.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, config.ChannelBufferSize)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	prompt := isTerminal(in)
	for {
		if prompt {
			s.print(config.Prompt)
		}

		var line string
		select {
		case <-ctx.Done():
			log.Info(config.MsgCtxCancel)
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrReadInput, err)
			}
			return nil
		case line = <-lines:
		}

		cmd, args := ParseInput(line)
		switch cmd {
		case "":
			continue
		case config.CmdExit, config.CmdClose:
			s.println(s.Translator.Msg(config.TKeyGoodbye, nil))
			return nil
		}
		s.println(s.Execute(ctx, cmd, args))
	}
}

// Execute runs one parsed command and returns the text to show.
func (s *Session) Execute(ctx context.Context, cmd string, args []string) string {
	h, ok := handlers[cmd]
	if !ok {
		return s.Translator.Msg(config.TKeyErrCommand, nil)
	}

	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompSession,
		config.LogKeyCommand, cmd,
		config.LogKeyArgs, len(args),
	)

	res, err := h(s, ctx, args)
	if err != nil {
		slog.Warn(config.MsgCommandFailed,
			config.LogKeyComponent, config.CompSession,
			config.LogKeyCommand, cmd,
			config.LogKeyError, err,
		)
		return s.explain(err)
	}
	if res.mutated {
		s.Publish()
	}
	return res.reply
}

// Publish renders the calendar and hands it to the Publisher, if any.
func (s *Session) Publish() {
	if s.Publisher == nil || s.Generator == nil {
		return
	}
	data, err := s.Generator.Calendar(s.Book)
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompSession,
			config.LogKeyError, err,
		)
		return
	}
	s.Publisher.Update(data)
	slog.Debug(config.MsgFeedPublished,
		config.LogKeyComponent, config.CompSession,
		config.LogKeySizeBytes, len(data),
	)
}

func (s *Session) print(text string) {
	_, _ = io.WriteString(s.Out, text)
}

func (s *Session) println(text string) {
	_, _ = fmt.Fprintln(s.Out, text)
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
