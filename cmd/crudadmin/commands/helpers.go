package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fivetwenty-io/crudadmin/internal/config"
	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/events"
	"github.com/fivetwenty-io/crudadmin/internal/forms"
	"github.com/fivetwenty-io/crudadmin/internal/logging"
	"github.com/fivetwenty-io/crudadmin/internal/store"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
	"github.com/fivetwenty-io/crudadmin/pkg/adminclient"
)

const cliUserAgent = "crudadmin-cli/1.0"

// session bundles what a resource command needs for one run.
type session struct {
	cfg       *config.Config
	client    admin.Client
	loading   *admin.PendingCounter
	logger    *zap.Logger
	spinner   *Spinner
	publisher events.Publisher
}

// newSession loads the configuration and connects the API client. The
// terminal spinner follows the loading counter until Close.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	zapLogger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	loading := admin.NewPendingCounter()

	var clientLogger admin.Logger
	if cfg.Debug {
		clientLogger = logging.NewAdapter(zapLogger)
	}

	clientConfig, err := cfg.ClientConfig(clientLogger, loading)
	if err != nil {
		return nil, err
	}

	clientConfig.UserAgent = cliUserAgent

	client, err := adminclient.New(commandContext(cmd), clientConfig)
	if err != nil {
		return nil, err
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:       cfg,
		client:    client,
		loading:   loading,
		logger:    zapLogger,
		spinner:   StartSpinner(cmd.ErrOrStderr(), loading),
		publisher: publisher,
	}, nil
}

// Close stops the spinner, closes the event publisher and flushes the logger.
func (s *session) Close() {
	s.spinner.Stop()

	err := s.publisher.Close()
	if err != nil {
		s.logger.Warn("failed to close event publisher", zap.Error(err))
	}

	_ = s.logger.Sync()
}

// storeOptions publishes store changes to the configured event publisher.
func (s *session) storeOptions() *store.Options {
	return &store.Options{Publisher: s.publisher, Logger: s.adminLogger()}
}

func (s *session) adminLogger() admin.Logger {
	return logging.NewAdapter(s.logger)
}

// newLogger builds the CLI logger. --verbose forces debug.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}

	logger, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// parseID parses a positive integer id argument.
func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidID, raw)
	}

	return id, nil
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s (y/N): ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	answer = strings.TrimSpace(answer)

	return answer == "y" || answer == "Y"
}

// fieldErrors turns form errors into one error listing every field.
func fieldErrors(errs forms.FieldErrors) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, errs[field]))
	}

	return fmt.Errorf("%w: %s", constants.ErrInvalidInput, strings.Join(parts, "; "))
}

func submitError(operation, message string) error {
	return fmt.Errorf("%w: failed to %s: %s", constants.ErrSubmitFailed, operation, message)
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= constants.StringTruncationLength {
		return s
	}

	return string(runes[:constants.StringTruncationLength-3]) + "..."
}
