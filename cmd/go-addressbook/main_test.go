package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/storage"
	"github.com/zalando/go-keyring"
)

// execute runs the root command against an isolated config and cache directory.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	opts := &options{}
	t.Cleanup(opts.closeLog)

	root := newRootCmd(opts)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSession_SavesOnExit(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, config.SettingsFileName)
	data := filepath.Join(dir, "book"+config.ExtVCF)

	out, err := execute(t, "add ann 1111111111\nadd-birthday ann 01.02.1990\nexit\n",
		"--config", cfg, "--file", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Contact added.")

	book, err := storage.Load(data)
	require.NoError(t, err)
	ann, ok := book.Find("ann")
	require.True(t, ok)
	bday, ok := ann.Birthday()
	require.True(t, ok)
	assert.Equal(t, "01.02.1990", bday.String())

	_, err = os.Stat(cfg)
	assert.NoError(t, err, "Default settings are created on first run")
}

func TestSession_SavesOnEOF(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "book"+config.ExtVCF)

	_, err := execute(t, "add bob\n", "--config", filepath.Join(dir, config.SettingsFileName), "--file", data)
	require.NoError(t, err)

	book, err := storage.Load(data)
	require.NoError(t, err)
	assert.Equal(t, 1, book.Len())
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, config.SettingsFileName)
	data := filepath.Join(dir, "book"+config.ExtVCF)
	ics := filepath.Join(dir, "out"+config.ExtICS)

	_, err := execute(t, "add ann\nadd-birthday ann 01.02.1990\n", "--config", cfg, "--file", data)
	require.NoError(t, err)

	out, err := execute(t, "", "--config", cfg, "--file", data, "--trigger", "-PT9H", "export-ics", ics)
	require.NoError(t, err)
	assert.Contains(t, out, ics)

	raw, err := os.ReadFile(ics)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "BEGIN:VEVENT")
	assert.Contains(t, string(raw), "TRIGGER:-PT9H")
}

func TestFlagsAreValidated(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, config.SettingsFileName)

	tests := []struct {
		name string
		args []string
	}{
		{"Unknown language", []string{"--lang", "fr"}},
		{"Window too large", []string{"--days", "1000"}},
		{"Bad trigger", []string{"--trigger", "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "--file", filepath.Join(dir, "b.vcf")}, tt.args...)
			args = append(args, config.CmdUseBdays)
			_, err := execute(t, "", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), config.ErrSettingsInvalid)
		})
	}
}

func TestBirthdaysCommand_EmptyBook(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "",
		"--config", filepath.Join(dir, config.SettingsFileName),
		"--file", filepath.Join(dir, "b.vcf"),
		"--lang", "uk",
		config.CmdUseBdays)
	require.NoError(t, err)
	assert.Contains(t, out, "Найближчим часом днів народження немає.")
}

func TestLoginCommand_StoresPassword(t *testing.T) {
	keyring.MockInit()

	out, err := execute(t, "s3cret\n", "login", "ann")
	require.NoError(t, err)
	assert.Contains(t, out, strings.TrimSpace(config.MsgPasswordSaved))

	got, err := keyring.Get(config.KeyringService, "ann")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestReadPassword(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"Line", "pw\n", "pw", false},
		{"Windows line", "pw\r\n", "pw", false},
		{"No newline", "pw", "pw", false},
		{"Empty", "\n", "", true},
		{"Nothing", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPassword(strings.NewReader(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, config.AppName)
	assert.Contains(t, out, config.Version)
}
