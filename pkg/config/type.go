package config

type NotifierConfig struct {
	// "sqlite" reads the collector database, "json" reads the metric
	// files written by the extraction command.
	Backend    string `toml:"backend"`
	MetricsDir string `toml:"metrics_dir"`

	// Cron spec for the daily report (minute hour dom month dow)
	CronSchedule string `toml:"cron_schedule"`

	// Window selection. Mode is "calendar_shifted", "calendar_utc" or
	// "trailing". Offsets are fixed hours; DST transitions are not
	// compensated.
	WindowMode    string `toml:"window_mode"`
	OffsetDays    int    `toml:"offset_days"`
	TzOffsetHours int    `toml:"tz_offset_hours"`
	TrailingHours int    `toml:"trailing_hours"`

	// Optional extraction command run before each report.
	ExtractCommand        string   `toml:"extract_command"`
	ExtractArgs           []string `toml:"extract_args"`
	ExtractConfigTemplate string   `toml:"extract_config_template"`
	ExtractConfigPath     string   `toml:"extract_config_path"`
	ExtractTimeoutSeconds int      `toml:"extract_timeout_seconds"`

	SMTP SMTPConfig `toml:"smtp"`
}

type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	// Recipient address; use the carrier's email-to-SMS gateway address
	// for text delivery (e.g. 5551234567@txt.example-carrier.net)
	To      string `toml:"to"`
	Subject string `toml:"subject"`
}

type CollectorConfig struct {
	// Websocket host:port of the smart meter interpreter API
	InterpreterAPIHost string `toml:"interpreter_api_host"`

	// Optional direct inverter polling over Modbus TCP
	SolarInverterIp         string `toml:"solar_inverter_ip"`
	SolarInverterModbusPort int    `toml:"solar_inverter_modbus_port"`
	// Should be named `preconfigured`
	// Check with `nmcli device status`
	WlanConnectionId    string `toml:"wlan_connection_id"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`

	// Raw samples older than this are deleted after ingest
	RetentionDays int `toml:"retention_days"`
}
