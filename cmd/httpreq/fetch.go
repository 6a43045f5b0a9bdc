package main

import (
	"bytes"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"http-req/application/http"
	"http-req/application/http/actor/client"
	"http-req/application/util/uri"
	"http-req/session/tls"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func newFetchCmd(name, short string, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <uri>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := http.Method(strings.ToUpper(name))
			return runFetch(cmd, f, method, args[0])
		},
	}
}

func runFetch(cmd *cobra.Command, f *flags, method http.Method, rawURI string) error {
	cfg, err := LoadConfig(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, f, cfg)

	if f.method != "" {
		if method, err = http.ParseMethod(f.method); err != nil {
			return errors.Wrap(errUsage, err.Error())
		}
	}

	u, err := uri.Parse(rawURI)
	if err != nil {
		return errors.Wrap(err, "parsing uri")
	}

	logger := slog.New(slog.DiscardHandler)
	if f.verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	connector := tls.NewConfig()
	connector.SetLogger(logger)
	for _, path := range cfg.CACerts {
		if err := connector.AddRootCertFilePEM(path); err != nil {
			return errors.Wrap(errConfig, err.Error())
		}
	}

	req := client.NewRequest(u).
		Method(method).
		Logger(logger).
		Connector(connector).
		ConnectTimeout(cfg.ConnectTimeout).
		ReadTimeout(cfg.ReadTimeout).
		WriteTimeout(cfg.WriteTimeout)
	if cfg.MaxHeadLength > 0 {
		req.MaxHeadLength(cfg.MaxHeadLength)
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Headers)) {
		req.Header(name, cfg.Headers[name])
	}
	for _, raw := range f.headers {
		name, value, err := parseHeaderFlag(raw)
		if err != nil {
			return err
		}
		req.Header(name, value)
	}
	if cfg.RequestID {
		id := uuid.NewString()
		req.Header("X-Request-Id", id)
		logger.Debug("request id", slog.String("id", id))
	}
	if cmd.Flags().Changed("data") {
		req.Body([]byte(f.data))
	}

	out := cmd.OutOrStdout()
	var sink io.Writer = out
	var captured bytes.Buffer
	if f.selectPath != "" {
		sink = &captured
	}

	res, err := req.Send(cmd.Context(), sink)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.ErrOrStderr(), cfg.NoColor)
	p.status(res)
	if f.include {
		p.headers(res)
	}

	if f.selectPath != "" {
		result := gjson.GetBytes(captured.Bytes(), f.selectPath)
		if !result.Exists() {
			return errors.Errorf("path %q not found in response body", f.selectPath)
		}
		_, err := io.WriteString(out, result.String()+"\n")
		return err
	}
	return nil
}

// applyFlags lets explicitly set flags win over the config file.
func applyFlags(cmd *cobra.Command, f *flags, cfg *Config) {
	changed := cmd.Flags().Changed
	if changed("connect-timeout") {
		cfg.ConnectTimeout = f.connectTimeout
	}
	if changed("read-timeout") {
		cfg.ReadTimeout = f.readTimeout
	}
	if changed("write-timeout") {
		cfg.WriteTimeout = f.writeTimeout
	}
	if changed("request-id") {
		cfg.RequestID = f.requestID
	}
	if changed("no-color") {
		cfg.NoColor = f.noColor
	}
	cfg.CACerts = append(cfg.CACerts, f.caCerts...)
}

func parseHeaderFlag(raw string) (name, value string, err error) {
	name, value, found := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return "", "", errors.Wrapf(errUsage, "header %q is not 'Name: value'", raw)
	}
	return name, strings.TrimSpace(value), nil
}
