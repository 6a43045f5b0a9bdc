package main

import (
	"time"

	"github.com/spf13/cobra"
)

type flags struct {
	configPath     string
	headers        []string
	data           string
	method         string
	connectTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	caCerts        []string
	requestID      bool
	selectPath     string
	include        bool
	noColor        bool
	verbose        bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "httpreq",
		Short: "Send one HTTP/1.1 request and print the response body.",
		Long: `httpreq sends a single HTTP/1.1 request over TCP or TLS,
prints the status line to stderr and streams the body to stdout.

Examples:
  httpreq get http://example.com/
  httpreq get https://api.example.com/users/1 --select name
  httpreq get http://localhost:8080/items -X POST --data '{"a":1}' -H 'Content-Type: application/json'
  httpreq head https://example.com/ --ca-cert ./root.pem`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file with default headers and timeouts")
	pf.StringArrayVarP(&f.headers, "header", "H", nil, "extra header as 'Name: value' (repeatable)")
	pf.StringVar(&f.data, "data", "", "request body")
	pf.StringVarP(&f.method, "method", "X", "", "request method (defaults to the command's method)")
	pf.DurationVar(&f.connectTimeout, "connect-timeout", 0, "deadline for connecting and the TLS handshake (0 = none)")
	pf.DurationVar(&f.readTimeout, "read-timeout", 0, "deadline for each read (0 = none)")
	pf.DurationVar(&f.writeTimeout, "write-timeout", 0, "deadline for each write (0 = none)")
	pf.StringArrayVar(&f.caCerts, "ca-cert", nil, "extra trusted root certificate PEM file (repeatable)")
	pf.BoolVar(&f.requestID, "request-id", false, "send a random X-Request-Id header")
	pf.StringVar(&f.selectPath, "select", "", "print only this gjson path of a JSON body")
	pf.BoolVarP(&f.include, "include", "i", false, "print response headers to stderr")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log connection details to stderr")

	root.AddCommand(newFetchCmd("get", "Fetch a resource", f))
	root.AddCommand(newFetchCmd("head", "Fetch only the head of a resource", f))

	return root
}
