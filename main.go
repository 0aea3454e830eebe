package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"policysync/config"
	"policysync/fetcher"
	"policysync/ldapfetch"
	"policysync/logger"
	"policysync/pgfetch"
)

func buildLdapEvent(cfg config.AgentConfiguration) (fetcher.FetchEvent, error) {
	var connectionParams *ldapfetch.ConnectionParams
	if cfg.Username != "" {
		connectionParams = &ldapfetch.ConnectionParams{
			User:     cfg.Username,
			Password: cfg.Password,
		}
	}

	filter := cfg.Filter
	if filter == "" {
		filter = ldapfetch.Present("objectClass").String()
	}

	payload, err := json.Marshal(ldapfetch.Config{
		Fetcher:          ldapfetch.ProviderName,
		ConnectionParams: connectionParams,
		Root:             cfg.BaseDN,
		Search:           filter,
		Attributes:       cfg.Attributes,
	})
	if err != nil {
		return fetcher.FetchEvent{}, err
	}

	return fetcher.NewFetchEvent(ldapfetch.ProviderName, cfg.ServerURL, payload), nil
}

func main() {
	ctx := context.Background()

	agentConfig := config.LoadEnvConfig("settings.env")
	logger.Init(logger.Config{Level: agentConfig.LogLevel})

	registry := fetcher.NewRegistry()
	if err := ldapfetch.Register(registry); err != nil {
		logger.Error("failed to register directory fetcher", "error", err)
		os.Exit(1)
	}
	if err := pgfetch.Register(registry); err != nil {
		logger.Error("failed to register sql fetcher", "error", err)
		os.Exit(1)
	}

	event, err := buildLdapEvent(agentConfig)
	if err != nil {
		logger.Error("failed to build fetch event", "error", err)
		os.Exit(1)
	}

	engine := fetcher.NewEngine(registry)
	values, err := engine.HandleEvent(ctx, event)
	if err != nil {
		logger.Error("fetch cycle failed", "event_id", event.ID, "error", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		logger.Error("failed to marshal value map", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
