package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-addressbook/internal/cli"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/server"
	"github.com/tartampluch/go-addressbook/internal/storage"
)

// options collects the command-line flags shared by every command.
type options struct {
	debug      bool
	configPath string
	dataFile   string
	lang       string
	days       int
	trigger    string
	serve      bool
	port       int

	logCloser io.Closer
}

func (o *options) closeLog() {
	if o.logCloser != nil {
		_ = o.logCloser.Close()
	}
}

// settings loads settings.yaml and applies the flags explicitly set on cmd.
func (o *options) settings(cmd *cobra.Command) (config.Settings, error) {
	path := o.configPath
	if path == "" {
		dir, err := config.AppConfigDir()
		if err != nil {
			return config.Settings{}, err
		}
		path = filepath.Join(dir, config.SettingsFileName)
	}

	s, err := config.LoadSettings(path)
	if err != nil {
		return config.Settings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed(config.FlagFile) {
		s.DataFile = o.dataFile
	}
	if flags.Changed(config.FlagLang) {
		s.Language = o.lang
	}
	if flags.Changed(config.FlagDays) {
		s.ReminderDays = o.days
	}
	if flags.Changed(config.FlagTrigger) {
		s.ReminderTrigger = o.trigger
	}
	if flags.Changed(config.FlagPort) {
		s.ServerPort = o.port
	}
	return s, s.Validate()
}

func newGenerator(s config.Settings, tr *cli.Translator) *engine.Generator {
	return &engine.Generator{
		Clock:           contacts.RealClock{},
		FormatSummary:   tr.EventSummary,
		ReminderTrigger: s.ReminderTrigger,
	}
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           config.BinaryName,
		Short:         config.CmdShortRoot,
		Version:       config.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logCloser = setupLogging(opts.debug)
			logStartupInfo()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDbg)
	pf.StringVar(&opts.configPath, config.FlagConfig, "", config.FlagDescCfg)
	pf.StringVar(&opts.dataFile, config.FlagFile, "", config.FlagDescFile)
	pf.StringVar(&opts.lang, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	pf.IntVar(&opts.days, config.FlagDays, config.DefaultReminderDays, config.FlagDescDays)
	pf.StringVar(&opts.trigger, config.FlagTrigger, "", config.FlagDescTrig)

	root.Flags().BoolVar(&opts.serve, config.FlagServe, false, config.FlagDescSrv)
	root.Flags().IntVar(&opts.port, config.FlagPort, config.DefaultPort, config.FlagDescPort)

	root.AddCommand(
		newBirthdaysCmd(opts),
		newExportCmd(opts),
		newLoginCmd(),
		newVersionCmd(),
	)
	return root
}

// runSession loads the book, runs the interactive loop and always saves on the way out.
func runSession(cmd *cobra.Command, opts *options) error {
	s, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	book, err := storage.Load(s.DataFile)
	if err != nil {
		return err
	}

	tr := cli.NewTranslator(s.Language)
	session := &cli.Session{
		Book:       book,
		Clock:      contacts.RealClock{},
		Out:        cmd.OutOrStdout(),
		Translator: tr,
		Generator:  newGenerator(s, tr),
		Importer: &engine.Importer{
			Fetcher:     engine.NewHTTPFetcher(),
			Credentials: engine.NewKeyringCredentials(),
		},
		Days: s.ReminderDays,
	}

	ctx := cmd.Context()
	if opts.serve {
		srv := server.NewCalendarServer(s.ServerPort)
		session.Publisher = srv

		srvCtx, stop := context.WithCancel(ctx)
		srvErr := make(chan error, config.ChannelBufferSize)
		go func() { srvErr <- srv.Start(srvCtx) }()
		defer func() {
			stop()
			if err := <-srvErr; err != nil {
				slog.Error(config.ErrServerShutdown,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err,
				)
			}
		}()
	}

	runErr := session.Run(ctx, cmd.InOrStdin())
	if err := storage.Save(book, s.DataFile); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func newBirthdaysCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdUseBdays,
		Short: config.CmdShortBdays,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			book, err := storage.Load(s.DataFile)
			if err != nil {
				return err
			}
			tr := cli.NewTranslator(s.Language)
			out := cmd.OutOrStdout()

			reminders := book.UpcomingBirthdays(contacts.RealClock{}.Now(), s.ReminderDays)
			if len(reminders) == 0 {
				_, _ = fmt.Fprintln(out, tr.Msg(config.TKeyNoBirthdays, nil))
				return nil
			}
			for _, r := range reminders {
				_, _ = fmt.Fprintln(out, tr.Msg(config.TKeyReminderLine, map[string]any{
					"Name": r.Name,
					"Date": r.CongratulationDate(),
				}))
			}
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdUseExport,
		Short: config.CmdShortExport,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.settings(cmd)
			if err != nil {
				return err
			}
			book, err := storage.Load(s.DataFile)
			if err != nil {
				return err
			}
			tr := cli.NewTranslator(s.Language)

			data, err := newGenerator(s, tr).Calendar(book)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, config.FilePermUserRW); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tr.Msg(config.TKeyExported, map[string]any{"Path": args[0]}))
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdUseLogin,
		Short: config.CmdShortLogin,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := args[0]
			in := cmd.InOrStdin()
			if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), config.MsgPasswordEntry, user)
			}

			pass, err := readPassword(in)
			if err != nil {
				return err
			}
			if err := engine.NewKeyringCredentials().Store(user, pass); err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), config.MsgPasswordSaved)
			return nil
		},
	}
}

// readPassword takes the first line of in.
func readPassword(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%s: %w", config.ErrReadInput, err)
	}
	pass := strings.TrimRight(line, "\r\n")
	if pass == "" {
		return "", errors.New(config.ErrPasswordEmpty)
	}
	return pass, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdUseVersion,
		Short: config.CmdShortVersion,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
