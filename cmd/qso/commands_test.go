package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RobertWHurst/qso"
	"github.com/RobertWHurst/qso/encoders/msgpack"
)

func runCmd(t *testing.T, cfg Config, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func TestEncodeJSONKeepsDocumentOrder(t *testing.T) {
	out, err := runCmd(t, Config{}, "", "encode", `{"user":{"name":"ann","langs":["en","de"]}}`)
	require.NoError(t, err)
	require.Equal(t, "user.name=ann&user.langs=en&user.langs=de\n", out)
}

func TestEncodeJSONNumbersAsDecimalText(t *testing.T) {
	out, err := runCmd(t, Config{}, "", "encode", `{"a":1e2,"b":1.0}`)
	require.NoError(t, err)
	require.Equal(t, "a=100&b=1\n", out)
}

func TestEncodeYAMLFromStdin(t *testing.T) {
	out, err := runCmd(t, Config{}, "b: 2\na: [x, y]\n", "encode", "--format", "yaml")
	require.NoError(t, err)
	require.Equal(t, "a=x&a=y&b=2\n", out)
}

func TestEncodeWithPrefix(t *testing.T) {
	out, err := runCmd(t, Config{}, "", "--prefix", "filter", "encode", `{"status":"open"}`)
	require.NoError(t, err)
	require.Equal(t, "filter.status=open\n", out)
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	_, err := runCmd(t, Config{}, "", "encode", "-f", "toml", "a = 1")
	require.ErrorContains(t, err, "unknown input format")
}

func TestEncodeRejectsInvalidDocument(t *testing.T) {
	_, err := runCmd(t, Config{}, "", "encode", `{"a":`)
	require.ErrorContains(t, err, "invalid JSON document")
}

func TestDecode(t *testing.T) {
	out, err := runCmd(t, Config{}, "", "decode", "b=2&a=1&a=3")
	require.NoError(t, err)
	require.Equal(t, `{"a":["1","3"],"b":"2"}`+"\n", out)
}

func TestDecodeIndent(t *testing.T) {
	out, err := runCmd(t, Config{}, "", "decode", "--indent", "a=1")
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": \"1\"\n}\n", out)
}

func TestDecodeColor(t *testing.T) {
	out, err := runCmd(t, Config{}, "", "decode", "--color", "a=1")
	require.NoError(t, err)
	require.Contains(t, out, "a")
	require.Contains(t, out, "1")
}

func TestDecodeUsesConfiguredPrefix(t *testing.T) {
	out, err := runCmd(t, Config{Prefix: "filter"}, "filter.a=1&page=2\n", "decode")
	require.NoError(t, err)
	require.Equal(t, `{"a":"1"}`+"\n", out)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := runCmd(t, Config{}, "", "decode", "a&b=1")
	require.ErrorIs(t, err, qso.ErrInvalidQueryString)
}

func TestConvertJSON(t *testing.T) {
	out, err := runCmd(t, Config{}, "", "convert", "a=1&a=2")
	require.NoError(t, err)
	require.Equal(t, `{"a":["1","2"]}`, out)
}

func TestConvertMsgpack(t *testing.T) {
	out, err := runCmd(t, Config{}, "", "convert", "--to", "msgpack", "a=1&a=2")
	require.NoError(t, err)

	var decoded *qso.Value
	require.NoError(t, msgpack.New().Decode([]byte(out), &decoded))
	require.True(t, decoded.Equal(qso.Mapping(qso.Entry{Key: "a", Value: qso.Strings("1", "2")})))
}

func TestConvertRejectsUnknownFormat(t *testing.T) {
	_, err := runCmd(t, Config{}, "", "convert", "-t", "xml", "a=1")
	require.ErrorContains(t, err, "unknown output format")
}

func TestStrictFlagDefaultsFromConfig(t *testing.T) {
	cmd := newRootCmd(Config{Strict: true})
	strict, err := cmd.PersistentFlags().GetBool("strict")
	require.NoError(t, err)
	require.True(t, strict)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("QSO_STRICT", "true")
	t.Setenv("QSO_PREFIX", "filter")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.True(t, cfg.Strict)
	require.Equal(t, "filter", cfg.Prefix)
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("QSO_STRICT", "maybe")

	_, err := loadConfig()
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)

	_, err = parseLevel("loud")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelWarn)

	logger.Debug("hidden")
	logger.Warn("shown", "key", "value")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}
