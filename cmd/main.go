package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"

	"github.com/ferrost/appkit/pkg/app"
	"github.com/ferrost/appkit/pkg/contracts"
	"github.com/ferrost/appkit/pkg/env"
	"github.com/ferrost/appkit/pkg/logger"
	"github.com/ferrost/appkit/pkg/messages"
	"github.com/ferrost/appkit/pkg/resources"
)

type appStarted struct {
	Name string
}

type greeterModule struct{}

func (m *greeterModule) Name() string { return "greeter" }

func (m *greeterModule) Register(registry contracts.BeanRegistry) error {
	return registry.InstanceNamed("greeting.code", "app.greeting")
}

func (m *greeterModule) Start(ctx contracts.Context) error {
	greeting := ctx.ResolveDefault(
		"app.greeting",
		map[string]any{"name": ctx.Environment().GetString("app.name", "world")},
		ctx.Environment().GetString("app.locale", "en"),
		"hello",
	)
	fmt.Println(greeting)
	return ctx.Publish(context.Background(), appStarted{Name: ctx.ApplicationName()})
}

func (m *greeterModule) Stop(contracts.Context) error { return nil }

func buildEnvironment(log contracts.Logger) contracts.MutableEnvironment {
	environment := env.New(env.NewOSSource("APP_"))

	fileSource, err := env.LoadSource("config", env.NewChainLoader(
		env.NewYAMLLoader("configs/app.yaml", "configs/app.yml"),
		env.NewJSONLoader("configs/app.json"),
	))
	if err != nil {
		log.Debug("no config file layer", "reason", err.Error())
	} else {
		environment.AddLast(fileSource)
	}

	if addr := environment.GetString("redis.addr"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		source, err := env.NewRedisSource(client, environment.GetString("redis.configKey", "appkit:config"))
		if err != nil {
			log.Warn("redis config source unavailable", "addr", addr, "error", err.Error())
		} else {
			environment.AddLast(source)
		}
	}
	return environment
}

func buildMessages(environment contracts.Environment, loader contracts.ResourcePatternResolver, log contracts.Logger) contracts.MessageResolver {
	sources := []messages.Source{
		messages.NewYAMLSource(loader, "file:configs/messages/*.yaml"),
	}
	if dsn := environment.GetString("messages.dsn"); dsn != "" {
		driver := environment.GetString("messages.driver", "sqlite3")
		db, err := sql.Open(driver, dsn)
		if err != nil {
			log.Warn("message store unavailable", "driver", driver, "error", err.Error())
		} else {
			sources = append(sources, messages.NewSQLSource(db, environment.GetString("messages.table", "app_messages")))
		}
	}

	resolver, err := messages.NewFromSources(sources,
		messages.WithDefaultLocale(environment.GetString("app.locale", "en")),
		messages.WithBundle("en", map[string]string{"app.greeting": "hello, {{.name}}"}),
	)
	if err != nil {
		log.Warn("message sources failed, using built-in bundle", "error", err.Error())
		return messages.New(messages.WithBundle("en", map[string]string{"app.greeting": "hello, {{.name}}"}))
	}
	return resolver
}

func main() {
	log := logger.New(logger.WithColor())
	environment := buildEnvironment(log)
	loader := resources.NewLoader()

	ctx := app.New(
		app.WithApplicationName(environment.GetString("app.name", "appkit-demo")),
		app.WithDisplayName("appkit demo"),
		app.WithEnvironment(environment),
		app.WithLogger(log),
		app.WithResourceLoader(loader),
		app.WithMessageResolver(buildMessages(environment, loader, log)),
		app.WithModule(&greeterModule{}),
	)

	if err := app.Run(ctx); err != nil {
		log.Critical("application failed", "error", err.Error())
		os.Exit(1)
	}
}
