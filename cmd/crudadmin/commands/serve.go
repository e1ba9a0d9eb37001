package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fivetwenty-io/crudadmin/internal/config"
	"github.com/fivetwenty-io/crudadmin/internal/constants"
	"github.com/fivetwenty-io/crudadmin/internal/events"
	"github.com/fivetwenty-io/crudadmin/internal/logging"
	"github.com/fivetwenty-io/crudadmin/internal/metrics"
	"github.com/fivetwenty-io/crudadmin/internal/store"
	"github.com/fivetwenty-io/crudadmin/internal/web"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
	"github.com/fivetwenty-io/crudadmin/pkg/adminclient"
)

const consoleUserAgent = "crudadmin-console/1.0"

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin console",
		Long: `Serve the web admin console for users and posts.

The console renders server-side HTML on top of the configured REST API and
exposes /health, /status/pending and Prometheus metrics on /metrics. Set
--nats-url to publish a change event after every create, update and delete.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("listen", constants.DefaultListenAddress, "address to listen on")
	cmd.Flags().String("nats-url", "", "NATS server URL for change events")
	cmd.Flags().String("event-subject-prefix", constants.DefaultEventSubjectPrefix, "subject prefix of change events")

	_ = viper.BindPFlag(config.KeyListen, cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag(config.KeyNATSURL, cmd.Flags().Lookup("nats-url"))
	_ = viper.BindPFlag(config.KeySubjectPrefix, cmd.Flags().Lookup("event-subject-prefix"))

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	zapLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = zapLogger.Sync()
	}()

	logger := logging.NewAdapter(zapLogger)
	loading := admin.NewPendingCounter()
	collector := metrics.NewCollector(constants.MetricsNamespace)

	unbind := collector.BindLoading(loading)
	defer unbind()

	clientConfig, err := cfg.ClientConfig(logger, loading)
	if err != nil {
		return err
	}

	clientConfig.UserAgent = consoleUserAgent
	clientConfig.ResponseInterceptors = append(clientConfig.ResponseInterceptors, collector.ResponseInterceptor())

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := adminclient.New(ctx, clientConfig)
	if err != nil {
		return err
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := publisher.Close()
		if closeErr != nil {
			zapLogger.Warn("failed to close event publisher", zap.Error(closeErr))
		}
	}()

	opts := &store.Options{Publisher: publisher, Logger: logger}

	server, err := web.NewServer(web.Config{
		Users:   store.NewUsers(client.Users(), opts),
		Posts:   store.NewPosts(client.Posts(), opts),
		Loading: loading,
		Metrics: collector,
		Logger:  zapLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to create console: %w", err)
	}

	zapLogger.Info("Console configured",
		zap.String("api_url", clientConfig.APIEndpoint),
		zap.Bool("events", cfg.NATSURL != ""),
	)

	err = server.ListenAndServe(ctx, cfg.Listen)
	if err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}

	return nil
}

// newPublisher connects to NATS when a URL is configured.
func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return events.NewNoOpPublisher(), nil
	}

	publisher, err := events.NewNATSPublisher(&events.NATSConfig{
		URL:           cfg.NATSURL,
		SubjectPrefix: cfg.SubjectPrefix,
		Name:          "crudadmin-console",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return publisher, nil
}
