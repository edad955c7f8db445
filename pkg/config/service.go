package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/solarwatch/solar_notifier/pkg/pathing"
)

// Configs are returned to the caller and passed down explicitly rather
// than held in package globals.

func LoadNotifierConfig() (*NotifierConfig, error) {
	configPath := filepath.Join(pathing.GetConfigDir(), "solar_notifier.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &NotifierConfig{
			Backend:               "sqlite",
			MetricsDir:            pathing.GetMetricsDir(),
			CronSchedule:          "0 7 * * *",
			WindowMode:            "calendar_shifted",
			OffsetDays:            1,
			TzOffsetHours:         0,
			TrailingHours:         24,
			ExtractTimeoutSeconds: 120,
			SMTP: SMTPConfig{
				Host:    "localhost",
				Port:    587,
				Subject: "Solar production",
			},
		}
		if err := writeConfig(configPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Load existing config
	var cfg NotifierConfig
	_, err := toml.DecodeFile(configPath, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadCollectorConfig() (*CollectorConfig, error) {
	configPath := filepath.Join(pathing.GetConfigDir(), "solar_collector.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &CollectorConfig{
			InterpreterAPIHost:      "raspberrypi.local:9039",
			SolarInverterIp:         "192.168.200.1",
			SolarInverterModbusPort: 502,
			WlanConnectionId:        "preconfigured", // Check with `nmcli device status`
			PollIntervalSeconds:     60,
			RetentionDays:           90,
		}
		if err := writeConfig(configPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Load existing config
	var cfg CollectorConfig
	_, err := toml.DecodeFile(configPath, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func writeConfig(path string, cfg any) error {
	cfgFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer cfgFile.Close()
	return toml.NewEncoder(cfgFile).Encode(cfg)
}
