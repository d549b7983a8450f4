package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gantry-io/gantry/cmd/console/config"
	"github.com/gantry-io/gantry/pkg/agent"
	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/notifications"
	"github.com/gantry-io/gantry/pkg/console/server"
	"github.com/gantry-io/gantry/pkg/console/server/streaming"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/gantry-io/gantry/pkg/console/telemetry"
	"github.com/gantry-io/gantry/pkg/console/worker"
	"github.com/gantry-io/gantry/pkg/gemini"
	"github.com/gantry-io/gantry/pkg/toolbelt"
	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/gantry-io/gantry/pkg/version"
	"github.com/go-chi/chi"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		logrus.Warnf("could not load .env file, relying on env vars")
	}

	config, err := config.Environ()
	if err != nil {
		logger := logrus.WithError(err)
		logger.Fatalln("main: invalid configuration")
	}

	initLogging(config)

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		fmt.Println(config.String())
	}

	if config.JWTSecret == "" {
		panic(fmt.Errorf("please provide the JWT_SECRET variable"))
	}
	if config.IsVertex() && config.Model.Project == "" {
		panic(fmt.Errorf("please provide the MODEL_PROJECT variable, or MODEL_API_KEY to skip Vertex AI"))
	}

	store := store.New(
		config.Database.Driver,
		config.Database.Config,
		config.Database.EncryptionKey,
		config.Database.EncryptionKeyNew,
	)

	err = reencrypt(store, config.Database.EncryptionKeyNew)
	if err != nil {
		panic(err)
	}

	varSet := loadVarSet(config.VarsPath)

	client, err := gemini.NewClient(context.Background(), gemini.Config{
		Model:    config.Model.Name,
		Project:  config.Model.Project,
		Location: config.Model.Location,
		APIKey:   config.Model.APIKey,
	})
	if err != nil {
		panic(err)
	}

	tools := toolbelt.New(toolbelt.Config{
		CommandTimeout: time.Duration(config.Agent.CommandTimeoutSeconds) * time.Second,
		MaxHelpBytes:   config.Agent.MaxHelpBytes,
	})
	reportPreflight(tools, config.MinSDKVersion)

	opsAgent := agent.New(client, tools, config.Agent.MaxSteps).
		WithInstructions(config.Agent.SystemPromptExtra.String())

	notificationsManager := notifications.NewManager()
	if config.Notifications.Provider == "slack" {
		notificationsManager.AddProvider(slackNotificationProvider(config, store))
	}
	if config.Notifications.Provider == "discord" {
		notificationsManager.AddProvider(discordNotificationProvider(config, store))
	}
	go notificationsManager.Run()

	// telemetry records are routed to BigQuery by the provisioned log
	// sinks, they stay JSON regardless of the console log format
	telemetryLogger := logrus.New()
	telemetryLogger.SetFormatter(&logrus.JSONFormatter{})
	emitter := telemetry.NewEmitter(telemetryLogger)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	waitCh := make(chan struct{})
	go func() {
		<-stopCh
		store.Close()
		close(waitCh)
	}()

	clientHub := streaming.NewClientHub()
	go clientHub.Run()

	eventsWorker := worker.NewEventsWorker(store, clientHub)
	go eventsWorker.Run()

	usageReporter := worker.NewUsageReporter(store, notificationsManager)
	go usageReporter.Run()

	sessionReaper := worker.NewSessionReaper(store, config.SessionRetentionDays)
	go sessionReaper.Run()

	metricsRouter := chi.NewRouter()
	metricsRouter.Get("/metrics", promhttp.Handler().ServeHTTP)
	go http.ListenAndServe(config.MetricsAddr, metricsRouter)

	logrus.Infof("gantry console %s listening on %s", version.String(), config.Addr)

	r := server.SetupRouter(config, store, clientHub, opsAgent, tools, notificationsManager, emitter, varSet)
	go func() {
		err = http.ListenAndServe(config.Addr, r)
		if err != nil {
			panic(err)
		}
	}()

	<-waitCh
	logrus.Info("Successfully cleaned up resources. Stopping.")
}

// reencrypt rewrites the encrypted settings rows so they pick up the new
// encryption key, then stops for the key swap.
func reencrypt(store *store.Store, encryptionKeyNew string) error {
	if encryptionKeyNew == "" {
		return nil
	}

	settings, err := store.Settings()
	if err != nil {
		return err
	}
	for _, setting := range settings {
		err = store.SaveSetting(setting)
		if err != nil {
			return err
		}
	}

	fmt.Println("db field re-encryption is done, please replace the value of DATABASE_ENCRYPTION_KEY with the value of DATABASE_ENCRYPTION_KEY_NEW, and delete DATABASE_ENCRYPTION_KEY_NEW environment variable")
	os.Exit(0)
	return nil
}

func loadVarSet(path string) *vars.VarSet {
	if path == "" {
		return nil
	}

	var varSet *vars.VarSet
	var err error
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		varSet, err = vars.LoadYAML(path)
	default:
		varSet, err = vars.LoadTfvars(path)
	}
	if err != nil {
		logrus.Warnf("cannot load variables file: %s", err)
		return nil
	}

	logrus.Infof("loaded variables from %s", path)
	return varSet
}

func reportPreflight(tools *toolbelt.Toolbelt, minSDKVersion string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report := tools.Preflight(ctx, minSDKVersion)
	if report.Healthy {
		logrus.Infof("preflight passed, Cloud SDK %s", report.SDKVersion)
		return
	}

	for tool, found := range report.Tools {
		if !found {
			logrus.Warnf("%s is not on the PATH", tool)
		}
	}
	if report.Error != "" {
		logrus.Warnf("preflight: %s", report.Error)
	}
}

func slackNotificationProvider(config *config.Config, store *store.Store) *notifications.SlackProvider {
	return &notifications.SlackProvider{
		Token:          notificationToken(config, store, model.SettingSlackToken),
		ChannelMapping: parseChannelMap(config),
		DefaultChannel: config.Notifications.DefaultChannel,
	}
}

func discordNotificationProvider(config *config.Config, store *store.Store) *notifications.DiscordProvider {
	return &notifications.DiscordProvider{
		Token:          notificationToken(config, store, model.SettingDiscordToken),
		ChannelMapping: parseChannelMap(config),
		ChannelID:      config.Notifications.DefaultChannel,
	}
}

// notificationToken prefers the token from the environment and keeps it
// in the encrypted settings table, so the console can restart without it
func notificationToken(config *config.Config, store *store.Store, key string) string {
	if config.Notifications.Token != "" {
		err := store.SaveSetting(&model.Setting{Key: key, Value: config.Notifications.Token})
		if err != nil {
			logrus.Warnf("cannot save notification token: %s", err)
		}
		return config.Notifications.Token
	}

	setting, err := store.Setting(key)
	if err != nil {
		logrus.Warnf("no notification token configured")
		return ""
	}
	return setting.Value
}

func parseChannelMap(config *config.Config) map[string]string {
	channelMap := map[string]string{}
	if config.Notifications.ChannelMapping != "" {
		pairs := strings.Split(config.Notifications.ChannelMapping, ",")
		for _, p := range pairs {
			keyValue := strings.Split(p, "=")
			channelMap[keyValue[0]] = keyValue[1]
		}
	}
	return channelMap
}

// helper function configures the logging.
func initLogging(c *config.Config) {
	if c.Logging.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.Logging.Trace {
		logrus.SetLevel(logrus.TraceLevel)
	}
	if c.Logging.Text {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   c.Logging.Color,
			DisableColors: !c.Logging.Color,
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{
			PrettyPrint: c.Logging.Pretty,
		})
	}
}
