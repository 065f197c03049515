package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RobertWHurst/qso"
	"github.com/RobertWHurst/qso/encoders/cbor"
	qsojson "github.com/RobertWHurst/qso/encoders/json"
	"github.com/RobertWHurst/qso/encoders/msgpack"
	"github.com/RobertWHurst/qso/encoders/protobuf"
)

func newRootCmd(cfg Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "qso",
		Short:         "Query-string codec for structured values",
		Long:          "Encode JSON or YAML documents as query strings and decode query strings back into structured data.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("strict", cfg.Strict, "fail on values that have no string form")
	root.PersistentFlags().String("prefix", cfg.Prefix, "nest every key below this dotted path")

	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newConvertCmd())
	return root
}

func newEncodeCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "encode [document]",
		Short: "Encode a JSON or YAML document as a query string",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			doc, err := parseDocument(input, format)
			if err != nil {
				return err
			}
			codec, err := codecFromFlags(cmd)
			if err != nil {
				return err
			}
			out, err := codec.Encode(doc)
			if err != nil {
				return err
			}
			slog.Debug("encoded document", "format", format, "bytes", len(out))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "input format: json or yaml")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var (
		color  bool
		indent bool
	)
	cmd := &cobra.Command{
		Use:   "decode [query]",
		Short: "Decode a query string into JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			codec, err := codecFromFlags(cmd)
			if err != nil {
				return err
			}
			var value *qso.Value
			if err := codec.Decode(input, &value); err != nil {
				return err
			}
			slog.Debug("decoded query string", "kind", value.Kind(), "len", value.Len())

			out, err := renderJSON(value, color, indent)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().BoolVar(&color, "color", false, "colorize the JSON output")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent the JSON output")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert [query]",
		Short: "Convert a query string into json, msgpack, cbor or protobuf bytes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			codec, err := codecFromFlags(cmd)
			if err != nil {
				return err
			}
			target, err := encoderFor(to, codec.Strict)
			if err != nil {
				return err
			}
			out, err := qso.Transcode(input, codec, target)
			if err != nil {
				return err
			}
			slog.Debug("converted query string", "to", to, "bytes", len(out))
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&to, "to", "t", "json", "output format: json, msgpack, cbor or protobuf")
	return cmd
}

func codecFromFlags(cmd *cobra.Command) (*qso.Codec, error) {
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return nil, err
	}
	prefix, err := cmd.Flags().GetString("prefix")
	if err != nil {
		return nil, err
	}
	return &qso.Codec{Prefix: prefix, Strict: strict}, nil
}

func encoderFor(format string, strict bool) (qso.Encoder, error) {
	switch strings.ToLower(format) {
	case "json":
		return &qsojson.Encoder{Strict: strict}, nil
	case "msgpack":
		return &msgpack.Encoder{Strict: strict}, nil
	case "cbor":
		return &cbor.Encoder{Strict: strict}, nil
	case "protobuf", "proto":
		return &protobuf.Encoder{Strict: strict}, nil
	}
	return nil, fmt.Errorf("unknown output format: %s", format)
}

// readInput returns the first argument, or stdin when no argument is given.
// Surrounding whitespace is trimmed.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		return []byte(strings.TrimSpace(args[0])), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return bytes.TrimSpace(data), nil
}

// parseDocument reads a JSON document into a *qso.Value, keeping key order,
// or a YAML document into plain Go values.
func parseDocument(data []byte, format string) (any, error) {
	switch strings.ToLower(format) {
	case "json":
		var value qso.Value
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("invalid JSON document: %w", err)
		}
		return &value, nil
	case "yaml", "yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML document: %w", err)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("unknown input format: %s", format)
}

func renderJSON(value *qso.Value, color, indent bool) ([]byte, error) {
	if color {
		f := colorjson.NewFormatter()
		f.Indent = 2
		return f.Marshal(value.Interface())
	}
	out, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if !indent {
		return out, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
