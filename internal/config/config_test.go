package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	scerrors "git.home.luguber.info/inful/sitecomposer/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MinimalConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  locales: [en-US]\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "Documentation Site", cfg.Site.Title)
	require.Equal(t, "en-US", cfg.Site.FallbackLocale)
	require.Equal(t, "./locales", cfg.LocalesDir)
	require.Equal(t, "./composed", cfg.Output.Directory)
	require.Equal(t, "yaml", cfg.Output.Format)
	require.Equal(t, "warn", cfg.Composer.Warnings)
}

func TestLoad_LocaleCodesAreCanonicalized(t *testing.T) {
	path := writeConfig(t, "site:\n  locales: [en-us, ZH-cn]\n  fallback_locale: en-us\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"en-US", "zh-CN"}, cfg.Site.Locales)
	require.Equal(t, "en-US", cfg.Site.FallbackLocale)
}

func TestLoad_InvalidLocaleCodeIsConfigError(t *testing.T) {
	path := writeConfig(t, "site:\n  locales: [\"no such locale\"]\n")

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, scerrors.IsCategory(err, scerrors.CategoryConfig))
}

func TestLoad_EnvironmentVariablesAreExpanded(t *testing.T) {
	t.Setenv("SC_TEST_TITLE", "Expanded Title")
	path := writeConfig(t, "site:\n  title: ${SC_TEST_TITLE}\n  locales: [en-US]\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Expanded Title", cfg.Site.Title)
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestValidate_DuplicateMixinPrefixRejected(t *testing.T) {
	path := writeConfig(t, `site:
  locales: [en-US]
mixins:
  - name: a
    prefix: /p
    locales_dir: ./a
  - name: b
    prefix: /p
    locales_dir: ./b
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate mixin prefix")
}

func TestValidate_MixinPrefixMustBeAbsolute(t *testing.T) {
	path := writeConfig(t, `site:
  locales: [en-US]
mixins:
  - name: a
    prefix: plugin-a
    locales_dir: ./a
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must start with '/'")
}

func TestNormalize_TrailingSlashStrippedFromPrefix(t *testing.T) {
	path := writeConfig(t, `site:
  locales: [en-US]
mixins:
  - name: a
    prefix: /plugin-a/
    locales_dir: ./a
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/plugin-a", cfg.Mixins[0].Prefix)
}

func TestValidate_BadScheduleIntervalRejected(t *testing.T) {
	path := writeConfig(t, "site:\n  locales: [en-US]\ndaemon:\n  schedule_interval: nope\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "schedule_interval")
}

func TestValidate_NATSSectionRequiresURL(t *testing.T) {
	path := writeConfig(t, "site:\n  locales: [en-US]\ndaemon:\n  nats:\n    subject: x\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "nats.url")
}

func TestValidate_UnknownOutputFormatRejected(t *testing.T) {
	path := writeConfig(t, "site:\n  locales: [en-US]\noutput:\n  format: toml\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "output format")
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := writeConfig(t, "existing: true\n")

	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Documentation", cfg.Site.Title)
	require.Equal(t, []string{"en-US", "de-DE"}, cfg.Site.Locales)
}
