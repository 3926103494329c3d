package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# sitecomposer configuration
site:
  title: "My Documentation"
  fallback_locale: "en-US"
  locales:
    - "en-US"
    - "de-DE"

# Per-locale theme documents: <locales_dir>/<locale>.yaml
locales_dir: ./locales

# Optional locale-default templates overlaying the built-in ones
# defaults_dir: ./defaults

# Markdown page sources, one subdirectory per locale (used by 'resolve')
content_dir: ./content

mixins:
  - name: plugin-b
    prefix: /plugin-b
    title: "Plugin B"
    locales_dir: ./mixins/plugin-b/locales
    descriptions:
      en-US: "Plugin B reference documentation"

output:
  directory: ./composed
  format: yaml
  clean: true

composer:
  warnings: warn

# history:
#   path: ./sitecomposer.db

# search:
#   host: https://search.example.com
#   api_key: ${SEARCH_API_KEY}
#   index_name: docs-{branch}

# refs:
#   repo_path: .

# daemon:
#   listen: ":8787"
#   watch: true
#   schedule_interval: 15m
#   nats:
#     url: nats://localhost:4222
#     subject: sitecomposer.recomposed
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write configuration file: %w", err)
	}
	return nil
}
