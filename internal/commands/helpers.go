package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/keystonebuyers/propsite/internal/config"
	"github.com/keystonebuyers/propsite/internal/logger"
	"github.com/keystonebuyers/propsite/internal/render"
	"github.com/keystonebuyers/propsite/internal/source"
	"github.com/keystonebuyers/propsite/internal/styles"
)

// exitError carries the process exit status of a failed command.
// An empty msg means the command already reported the failure.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

// fail builds the error a command returns for a user-facing failure
func fail(msg string, err error) error {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &exitError{code: 1, msg: msg}
}

// ExitCode prints err as a styled message and maps it to an exit status.
// Commands return errors so their deferred cleanup runs before the process exits.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}

	code, msg := 1, err.Error()
	var ee *exitError
	if errors.As(err, &ee) {
		code, msg = ee.code, ee.msg
	}
	if msg != "" {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+msg))
	}
	return code
}

// setup loads the config and opens the logger. The returned cleanup closes the log file.
func setup() (*config.Config, *logger.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fail("Error loading config", err)
	}

	log, cleanup := openLogger(cfg)
	log.ConfigLoaded(cfg.Source, cfg.ContentDir, cfg.PageSize)
	return cfg, log, cleanup, nil
}

// openLogger logs to log_file when set and to stderr otherwise
func openLogger(cfg *config.Config) (*logger.Logger, func()) {
	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
		if err == nil {
			return l, cleanup
		}
		fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("Warning: cannot open log file: "+err.Error()))
	}
	return logger.NewWithLevel(os.Stderr, level), func() {}
}

// newRenderer builds a renderer from the configured presentation hints
func newRenderer(cfg *config.Config) *render.Renderer {
	return render.New(render.Options{
		LeadInPhrases: cfg.LeadInPhrases,
		Placeholder:   cfg.EmptyPlaceholder,
	})
}

// openSource opens the configured source and returns a context bounded by query_timeout
func openSource(cfg *config.Config, log *logger.Logger) (source.Source, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	src, err := source.Open(ctx, cfg)
	if err != nil {
		cancel()
		log.SourceError("open", err)
		return nil, nil, nil, fail("Error opening "+cfg.Source+" source", err)
	}
	return src, ctx, cancel, nil
}

// describeSource names where content is read from
func describeSource(cfg *config.Config) string {
	switch cfg.Source {
	case config.SourceSQLite:
		return cfg.SQLitePath
	case config.SourcePostgres:
		return redactDSN(cfg.PostgresDSN)
	}
	return cfg.ContentDir
}

var dsnPassword = regexp.MustCompile(`(?i)(password\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// redactDSN hides the password of a postgres URL or keyword/value connection string
func redactDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "***"
		}
		q := u.Query()
		if q.Has("password") {
			q.Set("password", "xxxxx")
			u.RawQuery = q.Encode()
		}
		return u.Redacted()
	}
	return dsnPassword.ReplaceAllString(dsn, "${1}xxxxx")
}

// parseArgs parses flags that may appear before or after positional arguments
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// ParseLogFile reads the last maxLines of the log and finds the most recent content load
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastLoad time.Time
	listings := 0

	// Format: 2025-11-27 14:11:57 INFO content loaded source=file listings=12 posts=4
	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if !strings.Contains(line, "content loaded") {
			continue
		}
		if len(line) > 19 {
			if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
				lastLoad = t
			}
		}
		if idx := strings.Index(line, "listings="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "listings=%d", &listings) //nolint:errcheck // best effort parsing
		}
		break
	}

	return recentLines, lastLoad, listings
}
