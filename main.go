package hreq

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/HexmosTech/hreq/config"
	"github.com/HexmosTech/hreq/exchange"
	"github.com/HexmosTech/hreq/flags"
	"github.com/HexmosTech/hreq/input"
	"github.com/HexmosTech/hreq/logging"
	"github.com/HexmosTech/hreq/output"
	"github.com/HexmosTech/hreq/version"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Options struct {
	// Transport replaces the default HTTP transport when set.
	Transport http.RoundTripper
}

func Main(options *Options) error {
	return run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr, options)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, options *Options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Parse flags
	flagSet, optionSet, err := flags.Parse(args, stdin, cfg)
	if _, ok := errors.Cause(err).(*flags.UsageError); ok {
		flagSet.PrintUsage(stderr)
		return err
	}
	if err != nil {
		return err
	}
	switch {
	case optionSet.ShowHelp:
		flagSet.PrintUsage(stdout)
		return nil
	case optionSet.ShowVersion:
		fmt.Fprintf(stdout, "hreq %s\n", version.Current())
		return nil
	case optionSet.ShowLicenses:
		version.PrintLicenses(stdout)
		return nil
	}

	logger, err := logging.New(stderr, optionSet.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	spec, err := input.BuildRequestSpec(&optionSet.Args)
	if err != nil {
		return err
	}
	logger.Debug("resolved request",
		zap.Stringer("method", spec.Method),
		zap.String("url", spec.URL),
		zap.Bool("has_body", spec.HasBody()),
	)

	exchangeOptions := optionSet.ExchangeOptions
	if options != nil {
		exchangeOptions.Transport = options.Transport
	}
	outputOptions := &optionSet.OutputOptions

	writer := bufio.NewWriter(stdout)
	defer writer.Flush()
	printer := output.NewPrinter(output.PrinterConfig{
		Writer:       writer,
		EnableFormat: outputOptions.EnableFormat,
		EnableColor:  outputOptions.EnableColor,
	})

	// Print request
	if err := printRequest(ctx, writer, printer, spec, &exchangeOptions, outputOptions); err != nil {
		return err
	}

	// Send request and receive response
	resp, err := exchange.SendRequest(ctx, spec, &exchangeOptions, logger)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Print response
	if outputOptions.PrintResponseHeader {
		if err := printer.PrintStatusLine(resp.Proto, resp.Status, resp.StatusCode); err != nil {
			return err
		}
		if err := printer.PrintHeader(resp.Header); err != nil {
			return err
		}
		writer.Flush()
	}
	if outputOptions.Download {
		writer.Flush()
		fileWriter := output.NewFileWriter(resp.Request.URL, outputOptions)
		if err := fileWriter.Download(resp, stderr); err != nil {
			return err
		}
	} else if outputOptions.PrintResponseBody {
		if err := printer.PrintBody(resp.Body, resp.Header.Get("Content-Type")); err != nil {
			return err
		}
	}

	if optionSet.CheckStatus && !exchange.IsSuccess(resp) {
		return errors.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func printRequest(ctx context.Context, w io.Writer, printer output.Printer, spec *input.RequestSpec, exchangeOptions *exchange.Options, outputOptions *output.Options) error {
	if outputOptions.PrintRequestHeader {
		request, err := exchange.BuildHTTPRequest(ctx, spec, exchangeOptions)
		if err != nil {
			return err
		}
		if err := printer.PrintRequestLine(request); err != nil {
			return err
		}
		if err := printer.PrintHeader(request.Header); err != nil {
			return err
		}
	}
	if outputOptions.PrintRequestBody && spec.HasBody() {
		contentType := ""
		if spec.ContentType != nil {
			contentType = spec.ContentType.String()
		}
		if err := printer.PrintBody(strings.NewReader(*spec.Body), contentType); err != nil {
			return err
		}
		if outputOptions.PrintResponseHeader || outputOptions.PrintResponseBody {
			fmt.Fprint(w, "\n\n")
		}
	}
	return nil
}
