package flags

import (
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/HexmosTech/hreq/config"
	"github.com/HexmosTech/hreq/exchange"
	"github.com/HexmosTech/hreq/input"
	"github.com/HexmosTech/hreq/output"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

type FlagSet interface {
	Args() []string
	PrintUsage(w io.Writer)
}

type OptionSet struct {
	Args            input.Args
	ExchangeOptions exchange.Options
	OutputOptions   output.Options
	LogLevel        string
	CheckStatus     bool

	ShowHelp     bool
	ShowVersion  bool
	ShowLicenses bool
}

type terminalInfo struct {
	stdinIsTerminal  bool
	stdoutIsTerminal bool
}

// Parse parses command-line arguments (args[0] is the program name). Values
// missing from args fall back to cfg.
func Parse(args []string, stdin io.Reader, cfg *config.Config) (FlagSet, *OptionSet, error) {
	return parse(args, stdin, cfg, terminalInfo{
		stdinIsTerminal:  isatty.IsTerminal(os.Stdin.Fd()),
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	})
}

func parse(args []string, stdin io.Reader, cfg *config.Config, terminal terminalInfo) (FlagSet, *OptionSet, error) {
	optionSet := &OptionSet{
		LogLevel: cfg.LogLevel,
	}
	inputArgs := &optionSet.Args
	exchangeOptions := &optionSet.ExchangeOptions
	outputOptions := &optionSet.OutputOptions

	inputArgs.Method = cfg.Method
	exchangeOptions.FollowRedirects = cfg.Follow
	exchangeOptions.UserAgent = cfg.UserAgent

	var data string
	var ignoreStdin bool
	var verbose bool
	var authFlag string
	printFlag := "b"
	verifyFlag := "yes"
	timeout := cfg.Timeout.String()

	flagSet := getopt.New()
	flagSet.SetParameters("URL")
	flagSet.StringVarLong(&inputArgs.Method, "method", 'm', "HTTP method (case-insensitive): GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS", "METHOD")
	flagSet.StringVarLong(&inputArgs.ContentType, "type", 't', "Content-Type of the body: text, json, form, file or a MIME type; guessed from the body when omitted", "TYPE")
	dataOption := flagSet.StringVarLong(&data, "data", 'd', "request body; @FILE reads it from a file and @- from stdin", "DATA")
	flagSet.BoolVarLong(&ignoreStdin, "ignore-stdin", 0, "do not attempt to read stdin")
	flagSet.StringVarLong(&timeout, "timeout", 0, "timeout seconds that you allow the whole operation to take", "SECONDS")
	flagSet.BoolVarLong(&exchangeOptions.FollowRedirects, "follow", 'F', "follow 30x Location redirects")
	flagSet.StringVarLong(&verifyFlag, "verify", 0, "set to \"no\" to skip checking the host's SSL certificate", "yes|no")
	flagSet.BoolVarLong(&exchangeOptions.ForceHTTP1, "http1", 0, "force HTTP/1.1 protocol")
	flagSet.StringVarLong(&authFlag, "auth", 'a', "basic authentication; the password is prompted when omitted", "USER[:PASS]")
	flagSet.StringVarLong(&printFlag, "print", 'p', "specifies what the output should contain (HBhb)", "WHAT")
	flagSet.BoolVarLong(&optionSet.CheckStatus, "check-status", 0, "exit with an error when the status is not 2xx")
	flagSet.BoolVarLong(&outputOptions.Download, "download", 0, "download the body to a file instead of printing it")
	flagSet.StringVarLong(&outputOptions.OutputFile, "output", 'o', "save the body to FILE (implies --download)", "FILE")
	flagSet.BoolVarLong(&outputOptions.Overwrite, "overwrite", 0, "overwrite an existing file when downloading")
	flagSet.BoolVarLong(&verbose, "verbose", 'v', "log diagnostics to stderr")
	flagSet.BoolVarLong(&optionSet.ShowHelp, "help", 'h', "show this help")
	flagSet.BoolVarLong(&optionSet.ShowVersion, "version", 0, "show version")
	flagSet.BoolVarLong(&optionSet.ShowLicenses, "licenses", 0, "show licenses of hreq and its dependencies")
	if err := flagSet.Getopt(args, nil); err != nil {
		return flagSet, nil, newUsageError(err.Error())
	}
	if optionSet.ShowHelp || optionSet.ShowVersion || optionSet.ShowLicenses {
		return flagSet, optionSet, nil
	}

	switch len(flagSet.Args()) {
	case 0:
		return flagSet, nil, newUsageError("URL is required")
	case 1:
		inputArgs.URL = flagSet.Args()[0]
	default:
		return flagSet, nil, newUsageError("too many arguments: " + strings.Join(flagSet.Args()[1:], " "))
	}

	// Body
	if dataOption.Seen() {
		body, err := resolveData(data, stdin)
		if err != nil {
			return flagSet, nil, err
		}
		inputArgs.Body = &body
	} else if !ignoreStdin && !terminal.stdinIsTerminal {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return flagSet, nil, errors.Wrap(err, "failed to read stdin")
		}
		if len(b) > 0 {
			body := string(b)
			inputArgs.Body = &body
		}
	}

	// Parse --print
	if err := parsePrintFlag(printFlag, outputOptions); err != nil {
		return flagSet, nil, err
	}

	// Parse --timeout
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return flagSet, nil, err
	}
	exchangeOptions.Timeout = d

	// Parse --verify
	switch strings.ToLower(verifyFlag) {
	case "yes", "true":
	case "no", "false":
		exchangeOptions.SkipVerify = true
	default:
		return flagSet, nil, errors.Errorf("Value of --verify must be yes or no: %s", verifyFlag)
	}

	// Parse --auth
	if authFlag != "" {
		auth, err := parseAuth(authFlag)
		if err != nil {
			return flagSet, nil, err
		}
		exchangeOptions.Auth = auth
	}

	if outputOptions.OutputFile != "" {
		outputOptions.Download = true
	}

	if verbose {
		optionSet.LogLevel = "debug"
	}

	// Color
	outputOptions.EnableFormat = terminal.stdoutIsTerminal
	outputOptions.EnableColor = terminal.stdoutIsTerminal && !cfg.NoColor

	return flagSet, optionSet, nil
}

// resolveData reads @FILE and @- values; anything else is the body itself.
func resolveData(data string, stdin io.Reader) (string, error) {
	if !strings.HasPrefix(data, "@") {
		return data, nil
	}
	name := data[1:]
	if name == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "reading request body from stdin")
		}
		return string(b), nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", errors.Wrapf(err, "reading request body from '%s'", name)
	}
	return string(b), nil
}

func parsePrintFlag(printFlag string, outputOptions *output.Options) error {
	for _, c := range printFlag {
		switch c {
		case 'H':
			outputOptions.PrintRequestHeader = true
		case 'B':
			outputOptions.PrintRequestBody = true
		case 'h':
			outputOptions.PrintResponseHeader = true
		case 'b':
			outputOptions.PrintResponseBody = true
		default:
			return errors.Errorf("Invalid char in --print value (must be consist of HBhb): %c", c)
		}
	}
	return nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("Value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}

func parseAuth(authFlag string) (exchange.AuthOptions, error) {
	userName, password, found := strings.Cut(authFlag, ":")
	if !found {
		var err error
		password, err = askPassword(userName)
		if err != nil {
			return exchange.AuthOptions{}, err
		}
	}
	return exchange.AuthOptions{
		Enabled:  true,
		UserName: userName,
		Password: password,
	}, nil
}
