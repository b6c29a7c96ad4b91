package main

import (
	"collab-hub/assist"
	"collab-hub/auth"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config is read from COLLAB_* variables, flags win.
type Config struct {
	ServerURL     string        `envconfig:"SERVER_URL" default:"http://localhost:5000"`
	Model         string        `envconfig:"MODEL" default:"openai/gpt-4o"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"60s"`
	JWTSecret     string        `envconfig:"JWT_SECRET"`
	TokenDuration time.Duration `envconfig:"TOKEN_DURATION" default:"24h"`
}

const usage = `usage: collabctl [flags] <command> [args]

commands:
  generate <prompt>        generate code, -context adds context
  refactor                 suggest refactorings for the code read on stdin
  recommend <topic>        recommend resources, -level beginner|intermediate|advanced
  explain <error message>  explain an error for the code read on stdin
  ask <question>           answer a question, -context adds context
  models                   list the models the server accepts
  token <name>             issue a handshake token (needs COLLAB_JWT_SECRET)
`

func main() {
	code, err := run(os.Args[1:], os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "collabctl: %v\n", err)
	}
	os.Exit(code)
}

func run(args []string, stdin io.Reader, stdout io.Writer) (int, error) {
	var config Config
	if err := envconfig.Process("COLLAB", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	flags := flag.NewFlagSet("collabctl", flag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(flags.Output(), usage) }
	flags.StringVar(&config.ServerURL, "server", config.ServerURL, "hub base URL")
	flags.StringVar(&config.Model, "model", config.Model, "model id")
	flags.DurationVar(&config.Timeout, "timeout", config.Timeout, "request timeout")
	contextText := flags.String("context", "", "context for generate and ask")
	level := flags.String("level", "intermediate", "user level for recommend")
	if err := flags.Parse(args); err != nil {
		return exitConfig, err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return exitConfig, fmt.Errorf("missing command")
	}
	command, rest := flags.Arg(0), strings.Join(flags.Args()[1:], " ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := assist.NewClient(config.ServerURL, config.Model, config.Timeout)
	readCode := func() (string, error) {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}

	var out string
	var err error
	switch command {
	case "generate":
		out, err = client.GenerateCode(ctx, *contextText, rest)
	case "refactor":
		code, readErr := readCode()
		if readErr != nil {
			return exitRuntime, readErr
		}
		out, err = client.Refactor(ctx, code)
	case "recommend":
		out, err = client.Recommend(ctx, rest, *contextText, *level)
	case "explain":
		code, readErr := readCode()
		if readErr != nil {
			return exitRuntime, readErr
		}
		out, err = client.ExplainError(ctx, rest, code)
	case "ask":
		out, err = client.Answer(ctx, rest, *contextText)
	case "models":
		return printModels(ctx, client, stdout)
	case "token":
		if config.JWTSecret == "" {
			return exitConfig, fmt.Errorf("COLLAB_JWT_SECRET is not set")
		}
		out, err = auth.NewTokenIssuer(config.JWTSecret, config.TokenDuration).GenerateToken(rest)
	default:
		flags.Usage()
		return exitConfig, fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return exitRuntime, err
	}
	fmt.Fprintln(stdout, out)
	return exitOK, nil
}

func printModels(ctx context.Context, client *assist.Client, stdout io.Writer) (int, error) {
	models, err := client.Models(ctx)
	if err != nil {
		return exitRuntime, err
	}
	table := tablewriter.NewWriter(stdout)
	table.SetHeader([]string{"ID", "Name"})
	table.SetBorder(false)
	for _, m := range models {
		table.Append([]string{m.ID, m.Name})
	}
	table.Render()
	return exitOK, nil
}
