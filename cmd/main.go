package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/kievzenit/kscope/internal/codegen"
	"github.com/kievzenit/kscope/internal/compiler_errors"
	"github.com/kievzenit/kscope/internal/configs"
	"github.com/kievzenit/kscope/internal/driver"
	"github.com/kievzenit/kscope/internal/ir"
	"github.com/kievzenit/kscope/internal/ir/llvmir"
	"github.com/kievzenit/kscope/internal/ir/textir"
	"github.com/kievzenit/kscope/internal/lexer"
	"github.com/kievzenit/kscope/internal/logs"
	"github.com/kievzenit/kscope/internal/parser"
	"github.com/reusee/dscope"
)

var (
	configFiles = flag.String("config", "", "comma separated configuration files, searched in the working and user config directories when empty")
	backendName = flag.String("backend", "", "code generation backend: text or llvm")
	moduleName  = flag.String("module", "", "name of the generated module")
	logLevel    = flag.String("log-level", "", "log level: debug, info, warn or error")
	emitTokens  = flag.Bool("emit-tokens", false, "print the token stream and exit")
	emitAST     = flag.Bool("emit-ast", false, "print the syntax tree of each construct")
	emitIR      = flag.Bool("emit-ir", true, "print the IR of each construct")
	eval        = flag.Bool("eval", false, "evaluate top-level expressions")
	parseOnly   = flag.Bool("parse-only", false, "parse without generating code")
	dumpModule  = flag.Bool("dump-module", false, "print the whole module at the end of input")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kscope [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Reads standard input when no file is given, with a prompt on a terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(flag.Args()))
}

func run(args []string) int {
	scope := dscope.New(new(Module))
	if *configFiles != "" {
		scope = scope.Fork(func() configs.Paths {
			return strings.Split(*configFiles, ",")
		})
	}

	var config configs.Config
	var loadErr error
	var paths []string
	scope.Call(func(
		loader configs.Loader,
	) {
		paths = loader.Paths()
		config, loadErr = configs.Load(loader)
	})
	if loadErr != nil {
		fmt.Fprintf(os.Stderr, "error: config: %v\n", loadErr)
		return 1
	}
	applyFlags(&config)

	level, err := logs.ParseLevel(config.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	var logger logs.Logger
	scope.Fork(
		dscope.Provide(logs.Options{
			Level:   levelVar,
			Journal: config.Log.Journal,
		}),
	).Call(func(
		l logs.Logger,
	) {
		logger = l
	})
	logger.Debug("configuration loaded",
		"paths", paths,
		"backend", config.Backend,
		"module", config.Module,
	)

	input, fileName, interactive, closeInput, err := openInput(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeInput()

	lex := lexer.NewLexer(input)

	if *emitTokens {
		driver.DumpTokens(os.Stdout, lexer.NewLexerScanner(lex))
		return checkLexer(logger, lex)
	}

	precedence := parser.DefaultPrecedenceTable()
	if err := precedence.Merge(config.Operators); err != nil {
		fmt.Fprintf(os.Stderr, "error: operators: %v\n", err)
		return 1
	}

	var module ir.Module
	var generator *codegen.Generator
	if !*parseOnly {
		var builder ir.Builder
		var dispose func()
		module, builder, dispose, err = newBackend(config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer dispose()

		generator = codegen.NewGenerator(module, builder, logger)
		generator.SetFileName(fileName)
	}

	errs := compiler_errors.NewErrorHandler(os.Stderr)
	p := parser.NewParser(fileName, lexer.NewLexerScanner(lex), precedence)
	d := driver.NewDriver(p, generator, errs, driver.Options{
		Out:     os.Stdout,
		Logger:  logger,
		EmitAST: *emitAST,
		EmitIR:  *emitIR,
		Eval:    *eval,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := d.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted")
		} else {
			logger.Error("run", "error", err)
		}
		return 1
	}

	if code := checkLexer(logger, lex); code != 0 {
		return code
	}

	if *dumpModule && module != nil {
		fmt.Print(module.String())
	}

	if errs.HasErrors() && !interactive {
		return 1
	}

	return 0
}

func applyFlags(config *configs.Config) {
	if *backendName != "" {
		config.Backend = *backendName
	}
	if *moduleName != "" {
		config.Module = *moduleName
	}
	if *logLevel != "" {
		config.Log.Level = *logLevel
	}
}

// openInput returns the file named on the command line, a prompt when
// standard input is a terminal, or standard input itself.
func openInput(args []string) (input io.Reader, fileName string, interactive bool, closeInput func(), err error) {
	if len(args) > 0 {
		fileName = args[0]
		f, err := os.Open(fileName)
		if err != nil {
			return nil, "", false, nil, err
		}
		return f, fileName, false, func() { f.Close() }, nil
	}

	if !isInteractive() {
		return os.Stdin, "", false, func() {}, nil
	}

	rl, err := newREPL()
	if err != nil {
		return nil, "", false, nil, err
	}
	return &lineReader{source: rl}, "", true, func() { rl.Close() }, nil
}

func newBackend(config configs.Config) (ir.Module, ir.Builder, func(), error) {
	switch config.Backend {
	case configs.BackendText:
		return textir.NewModuleWithBuiltins(config.Module), textir.NewBuilder(), func() {}, nil

	case configs.BackendLLVM:
		module := llvmir.NewModule(config.Module)
		builder := module.NewBuilder()
		return module, builder, func() {
			builder.Dispose()
			module.Dispose()
		}, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown backend %q, want %s or %s",
		config.Backend, configs.BackendText, configs.BackendLLVM)
}

func checkLexer(logger *slog.Logger, lex *lexer.Lexer) int {
	if err := lex.Err(); err != nil {
		logger.Error("read input", "error", err)
		return 1
	}

	return 0
}
