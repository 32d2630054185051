// Command modelguard compiles validator models and either checks a single
// document against one of them or serves them over HTTP.
//
//	modelguard check -models models.yaml -model user -input user.json
//	modelguard serve -models models.yaml -addr :8080
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrymomot/modelguard/pkg/config"
	"github.com/dmitrymomot/modelguard/pkg/confmap"
	"github.com/dmitrymomot/modelguard/pkg/environment"
	"github.com/dmitrymomot/modelguard/pkg/httpserver"
	"github.com/dmitrymomot/modelguard/pkg/httpvalidate"
	"github.com/dmitrymomot/modelguard/pkg/logger"
	"github.com/dmitrymomot/modelguard/pkg/pipeline"
	"github.com/dmitrymomot/modelguard/pkg/requestid"
	"github.com/dmitrymomot/modelguard/pkg/validator"
)

const service = "modelguard"

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1
	exitError   = 2
)

type settings struct {
	ModelsFile string            `env:"MODELGUARD_MODELS_FILE" envDefault:"models.yaml"`
	Env        string            `env:"APP_ENV" envDefault:"development"`
	LogLevel   string            `env:"LOG_LEVEL"`
	HTTP       httpserver.Config `envPrefix:"MODELGUARD_"`
}

var errUsage = errors.New("usage: modelguard <check|serve> [flags]")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cfg settings
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	env := environment.Parse(cfg.Env)
	log := logger.New(
		logger.WithEnvironment(env, service),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithOutput(stderr),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	if len(args) == 0 {
		fmt.Fprintln(stderr, errUsage)
		return exitError
	}

	var err error
	code := exitOK
	switch args[0] {
	case "check":
		code, err = check(args[1:], cfg, stdin, stdout, log)
	case "serve":
		err = serve(ctx, args[1:], cfg, env, log)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	if err != nil {
		log.Error("command failed", logger.Error(err))
		return exitError
	}
	return code
}

func compileModels(path string, log *slog.Logger) (*pipeline.Container, *validator.Registry, error) {
	section, err := config.LoadModelsFile(path)
	if err != nil {
		return nil, nil, err
	}
	host := pipeline.NewContainer()
	reg, err := validator.Compile(section, host, validator.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return host, reg, nil
}

func check(args []string, cfg settings, stdin io.Reader, stdout io.Writer, log *slog.Logger) (int, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	modelsFile := fs.String("models", cfg.ModelsFile, "YAML or JSON file with the validator section")
	model := fs.String("model", "", "model to validate against")
	input := fs.String("input", "-", "JSON or YAML document to validate, - for stdin")
	if err := fs.Parse(args); err != nil {
		return exitError, err
	}
	if *model == "" {
		return exitError, errors.New("check: -model is required")
	}

	host, reg, err := compileModels(*modelsFile, log)
	if err != nil {
		return exitError, err
	}
	if _, ok := reg.Get(*model); !ok {
		return exitError, fmt.Errorf("check: unknown model %q", *model)
	}

	doc, err := readDocument(*input, stdin)
	if err != nil {
		return exitError, err
	}

	state := pipeline.NewState()
	if doc != nil {
		state.Set(*model, doc)
	}
	if err := host.Call(validator.FuncName(*model), state); err != nil {
		return exitError, err
	}
	errs, _ := validator.ErrorsFrom(state, *model)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(httpvalidate.Result{Valid: len(errs) == 0, Model: *model, Errors: errs}); err != nil {
		return exitError, err
	}
	if len(errs) > 0 {
		return exitInvalid, nil
	}
	return exitOK, nil
}

func readDocument(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
		name = path
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
		name = "stdin.json"
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("check: read input: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return confmap.Decode(name, data)
}

func serve(ctx context.Context, args []string, cfg settings, env environment.Environment, log *slog.Logger) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	modelsFile := fs.String("models", cfg.ModelsFile, "YAML or JSON file with the validator section")
	addr := fs.String("addr", cfg.HTTP.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	host, reg, err := compileModels(*modelsFile, log)
	if err != nil {
		return err
	}

	router := httpvalidate.NewRouter(host, reg,
		httpvalidate.WithLogger(log),
		httpvalidate.WithMiddleware(environment.Middleware(env)),
	)

	httpCfg := cfg.HTTP
	httpCfg.Addr = *addr
	return httpserver.New(httpCfg, httpserver.WithLogger(log)).Run(ctx, router)
}
