package config

import "time"

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

func NewRepositoryForTest(backend, dataDir, sqlDriver, sqlDSN string) *Repository {
	return &Repository{backend: backend, dataDir: dataDir, sqlDriver: sqlDriver, sqlDSN: sqlDSN}
}

func NewCatalogForTest(path string) *Catalog {
	return &Catalog{path: path, seed: true}
}

func NewClientForTest(baseURL string, timeout time.Duration, retries int) *Client {
	return &Client{baseURL: baseURL, timeout: timeout, retries: retries}
}

func NewSlackForTest(webhookURL, botToken, channel string) *Slack {
	return &Slack{webhookURL: webhookURL, botToken: botToken, channel: channel}
}
