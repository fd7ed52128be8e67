package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-AddressBook/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go AddressBook"
	AppID             = "com.github.tartampluch.go-addressbook"
	BinaryName        = "go-addressbook"
	KeyringService    = "com.github.tartampluch.go-addressbook"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DataFileName      = "addressbook.vcf"
	SettingsFileName  = "settings.yaml"
	TempFilePattern   = ".addressbook-*.tmp"
	Prompt            = "> "
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the contact snapshot, settings and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug    = "debug"
	FlagFile     = "file"
	FlagConfig   = "config"
	FlagLang     = "lang"
	FlagServe    = "serve"
	FlagPort     = "port"
	FlagDays     = "days"
	FlagTrigger  = "trigger"
	FlagDescDbg  = "Enable debug logging (also mirrored to stderr)"
	FlagDescFile = "Path to the contact snapshot (vCard)"
	FlagDescCfg  = "Path to the settings file"
	FlagDescLang = "Language of user-facing messages (en, uk)"
	FlagDescSrv  = "Publish the birthday calendar over HTTP while the session runs"
	FlagDescPort = "Port of the birthday calendar server"
	FlagDescDays = "Lookahead window in days for upcoming birthdays"
	FlagDescTrig = "ISO-8601 alarm trigger for exported events (e.g. -P1D)"

	CmdUseBdays   = "birthdays"
	CmdUseExport  = "export-ics <path>"
	CmdUseLogin   = "login <user>"
	CmdUseVersion = "version"

	CmdShortRoot     = "Personal contact book with birthday reminders"
	CmdShortBdays    = "Print upcoming birthdays and exit"
	CmdShortExport   = "Write the birthday calendar (iCalendar) to a file"
	CmdShortLogin    = "Store a password for remote vCard imports in the system keyring"
	CmdShortVersion  = "Show application version and exit"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgPasswordEntry = "Password for %s: "
	MsgPasswordSaved = "Password stored.\n"
)

// -----------------------------------------------------------------------------
// Session Commands
// -----------------------------------------------------------------------------

const (
	CmdHello        = "hello"
	CmdAdd          = "add"
	CmdChange       = "change"
	CmdPhone        = "phone"
	CmdDelete       = "delete"
	CmdShow         = "show"
	CmdAddBirthday  = "add-birthday"
	CmdShowBirthday = "show-birthday"
	CmdBirthdays    = "birthdays"
	CmdAll          = "all"
	CmdExportICS    = "export-ics"
	CmdImport       = "import"
	CmdHelp         = "help"
	CmdExit         = "exit"
	CmdClose        = "close"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWelcome         = "msg_welcome"
	TKeyGoodbye         = "msg_goodbye"
	TKeyHello           = "msg_hello"
	TKeyHelp            = "msg_help"
	TKeyContactAdded    = "msg_contact_added"
	TKeyContactUpdated  = "msg_contact_updated"
	TKeyContactChanged  = "msg_contact_changed"
	TKeyContactDeleted  = "msg_contact_deleted"
	TKeyBirthdayAdded   = "msg_birthday_added"
	TKeyBirthdayUnset   = "msg_birthday_unset"
	TKeyNoPhones        = "msg_no_phones"
	TKeyNoContacts      = "msg_no_contacts"
	TKeyNoBirthdays     = "msg_no_birthdays"
	TKeyReminderLine    = "msg_reminder_line" // Requires Name, Date
	TKeyExported        = "msg_exported"      // Requires Path
	TKeyImported        = "msg_imported"      // Requires Count
	TKeyErrArgs         = "err_missing_args"
	TKeyErrNoContact    = "err_contact_not_found"
	TKeyErrNoPhone      = "err_phone_not_found"
	TKeyErrName         = "err_invalid_name"
	TKeyErrPhone        = "err_invalid_phone"
	TKeyErrBirthday     = "err_invalid_birthday"
	TKeyErrDays         = "err_invalid_days"
	TKeyErrCommand      = "err_invalid_command"
	TKeyErrExport       = "err_export_failed"
	TKeyErrImport       = "err_import_failed"
	TKeyErrUnexpected   = "err_unexpected"
	TKeyEvtSummary      = "event_summary"     // Requires Name
	TKeyEvtSummaryAge   = "event_summary_age" // Requires Name, Age
)

// SupportedLanguages defines the list of available message languages (ISO 639-1).
var SupportedLanguages = []string{"en", "uk"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultLanguage     = "en"
	DefaultPort         = 18080
	DefaultReminderDays = 7
	MaxReminderDays     = 366
	UIDNamespace        = "go-addressbook-v1|" // Prefix for deterministic UID generation
	PhoneDigits         = 10
)

// ISO8601 duration pattern accepted for alarm triggers (e.g. "-P1D", "PT2H").
const ISODurationPattern = `^-?P(\d+W|(\d+D)?(T(\d+H)?(\d+M)?(\d+S)?)?|\d+[DHM])$`

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go AddressBook//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "go-addressbook"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardVersion  = "VERSION"
	VCardVersion4 = "4.0"
	VCardUID      = "UID"
	VCardBDAY     = "BDAY"
	VCardFN       = "FN"
	VCardN        = "N"
	VCardTEL      = "TEL"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateFormatBirthday is the user-facing day.month.year layout.
	DateFormatBirthday = "02.01.2006"

	// Date layouts accepted for vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	// UID Generation
	FormatUID = "%s-%d@%s"

	// File Extensions
	ExtVCF = ".vcf"
	ExtICS = ".ics"

	// Rendering
	RuleChar         = "-"
	PhoneSeparator   = "; "
	FormatRecordLine = "Contact name: %s, phones: %s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteMetrics        = "/metrics"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricFeedRequests = "addressbook_feed_requests_total"
	MetricFeedSize     = "addressbook_feed_size_bytes"
	MetricFeedUpdates  = "addressbook_feed_updates_total"
	MetricHelpRequests = "Requests served by the birthday calendar feed, by status code"
	MetricHelpSize     = "Size in bytes of the currently published calendar"
	MetricHelpUpdates  = "Number of times the published calendar was replaced"
	MetricLabelCode    = "code"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrValidation      = "validation failed"
	ErrNotFound        = "not found"
	ErrNameEmpty       = "name cannot be empty"
	ErrPhoneFormat     = "phone number must consist of exactly 10 digits"
	ErrBirthdayFormat  = "invalid date format, use DD.MM.YYYY"
	ErrContactNotFound = "contact not found"
	ErrPhoneNotFound   = "phone number not found"
	ErrSnapshotRead    = "failed to read contact snapshot"
	ErrSnapshotWrite   = "failed to write contact snapshot"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrVCardEncode     = "failed to encode vCard data"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrSourceEmpty     = "import source is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSettingsRead    = "failed to read settings file"
	ErrSettingsParse   = "failed to parse settings file"
	ErrSettingsWrite   = "failed to write default settings file"
	ErrSettingsInvalid = "invalid settings"
	ErrKeyring         = "keyring access failed"
	ErrReadInput       = "failed to read input"
	ErrPasswordEmpty   = "password must not be empty"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary    = "Birthday: %s"
	FallbackSummaryAge = "Birthday: %s (%d)"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgSessionStart  = "Session started"
	MsgSessionEnd    = "Session ended"
	MsgCtxCancel     = "Context cancelled, ending session"
	MsgCommand       = "Command dispatched"
	MsgCommandFailed = "Command failed"
	MsgSnapshotLoad  = "Contact snapshot loaded"
	MsgSnapshotNew   = "No contact snapshot found, starting empty"
	MsgSnapshotSave  = "Contact snapshot saved"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedPhone  = "Skipping invalid phone number"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgGenSuccess    = "Calendar generation successful"
	MsgImportDone    = "vCard import finished"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgFeedPublished = "Birthday feed published"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgSettingsNew   = "First run detected, default settings created"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyUser      = "user"
	LogKeyCommand   = "command"
	LogKeyArgs      = "args"
	LogKeyRecords   = "records"
	LogKeyTouched   = "touched"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyName      = "name"
	LogKeySource    = "source"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain     = "main"
	CompSession  = "session"
	CompStorage  = "storage"
	CompEngine   = "engine"
	CompImporter = "importer"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompI18n     = "i18n"
	CompSettings = "settings"
)
