package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/config"
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// exportPlan is a resolved export run: the engine config plus the
// orchestrator switches.
type exportPlan struct {
	cfg      mdexport.ExportConfig
	fileType mdexport.FileType
	offline  bool
	replay   bool

	configName string // as requested, empty for the default lookup
	configPath string // file actually loaded, empty when none
}

// runExportCmd runs the export command and returns an exit code.
func runExportCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		out := newPrinter(env, false, false)
		return out.fail(fmt.Errorf("%w: %v", ErrUsage, err), nil)
	}

	out := newPrinter(env, flags.common.quiet, flags.common.verbose)
	warnUnknownEnvVars(env.Stderr)

	plan, err := resolvePlan(positional, flags, loadEnvConfig())
	if err != nil {
		return out.fail(err, plan)
	}
	if plan.configPath != "" {
		out.debugf("config: %s", plan.configPath)
	}

	if flags.watch {
		return out.fail(runWatch(ctx, plan, env, out), plan)
	}
	return out.fail(exportOnce(ctx, plan, env, out), plan)
}

// resolvePlan merges defaults, the config file, environment variables and
// command-line flags, in increasing order of precedence.
func resolvePlan(positional []string, flags *exportFlags, envCfg *envConfig) (*exportPlan, error) {
	if len(positional) > 1 {
		return nil, fmt.Errorf("%w: expected at most one input file, got %d", ErrUsage, len(positional))
	}

	plan := &exportPlan{
		cfg:        mdexport.DefaultExportConfig(),
		fileType:   mdexport.FileTypePDF,
		configName: flags.common.config,
	}
	if plan.configName == "" {
		plan.configName = envCfg.ConfigPath
	}

	fileCfg, path, err := loadConfigFile(plan.configName)
	if err != nil {
		return plan, err
	}
	plan.configPath = path
	if fileCfg != nil {
		applyFileConfig(fileCfg, plan)
	}
	applyEnvConfig(envCfg, &plan.cfg)
	applyFlags(flags, plan)

	if len(positional) == 1 {
		plan.cfg.SourcePath = positional[0]
	}
	if !plan.fileType.IsChrome() {
		return plan, fmt.Errorf("%w: %q (must be pdf, png or jpeg)", mdexport.ErrInvalidFileType, plan.fileType)
	}
	return plan, plan.cfg.Validate()
}

// loadConfigFile loads the named config, or the default name when name is
// empty. A missing default config is not an error: it returns nil.
func loadConfigFile(name string) (*config.Config, string, error) {
	lookup := name
	if lookup == "" {
		lookup = config.DefaultName
	}
	cfg, path, err := config.LoadConfig(lookup)
	if err != nil {
		if name == "" && errors.Is(err, config.ErrConfigNotFound) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

// applyFileConfig copies set config file values into the plan.
func applyFileConfig(c *config.Config, plan *exportPlan) {
	cfg := &plan.cfg

	if c.Source != "" {
		cfg.SourcePath = c.Source
	}
	if c.Output.Dir != "" {
		cfg.OutputDir = c.Output.Dir
	}
	if c.Theme.Preview != "" {
		cfg.PreviewTheme = c.Theme.Preview
	}
	if c.Theme.Code != "" {
		cfg.CodeBlockTheme = c.Theme.Code
	}
	if c.Theme.Dir != "" {
		cfg.ThemeDir = c.Theme.Dir
	}

	if c.Markdown.Parser != "" {
		cfg.Parser = c.Markdown.Parser
	}
	if c.Markdown.BreakOnSingleNewLine != nil {
		cfg.BreakOnSingleNewLine = *c.Markdown.BreakOnSingleNewLine
	}

	if c.Chunks.Enabled != nil {
		cfg.EnableScriptExecution = *c.Chunks.Enabled
	}
	if c.Chunks.RunAll != nil {
		plan.replay = !*c.Chunks.RunAll
	}
	if c.Chunks.Timeout > 0 {
		cfg.ChunkTimeout = c.Chunks.Timeout.Std()
	}

	plan.offline = c.HTML.Offline

	if c.Chrome.FileType != "" {
		plan.fileType = mdexport.FileType(c.Chrome.FileType)
	}
	if c.Chrome.Browser != "" {
		cfg.Browser = c.Chrome.Browser
	}
	if c.Chrome.PrintBackground != nil {
		cfg.PrintBackground = *c.Chrome.PrintBackground
	}
	if c.Chrome.Timeout > 0 {
		cfg.Timeout = c.Chrome.Timeout.Std()
	}
	if c.Chrome.Page.Size != "" {
		cfg.Page.Size = c.Chrome.Page.Size
	}
	if c.Chrome.Page.Landscape {
		cfg.Page.Landscape = true
	}
	if c.Chrome.Page.Margin != nil {
		cfg.Page.Margin = *c.Chrome.Page.Margin
	}
}

// applyFlags copies the flags given on the command line into the plan.
func applyFlags(f *exportFlags, plan *exportPlan) {
	cfg := &plan.cfg
	set := f.set

	if set["output-dir"] {
		cfg.OutputDir = f.outputDir
	}
	if set["offline"] {
		plan.offline = f.offline
	}

	if set["preview-theme"] {
		cfg.PreviewTheme = f.theme.preview
	}
	if set["code-theme"] {
		cfg.CodeBlockTheme = f.theme.code
	}
	if set["theme-dir"] {
		cfg.ThemeDir = f.theme.dir
	}

	if set["parser"] {
		cfg.Parser = f.markdown.parser
	}
	if set["break-on-newline"] {
		cfg.BreakOnSingleNewLine = f.markdown.breakOnNewline
	}
	if set["no-scripts"] {
		cfg.EnableScriptExecution = !f.markdown.noScripts
	}
	if set["no-run-chunks"] {
		plan.replay = f.markdown.noRunChunks
	}
	if set["chunk-timeout"] {
		cfg.ChunkTimeout = f.markdown.chunkTimeout
	}

	if set["file-type"] {
		plan.fileType = mdexport.FileType(f.chrome.fileType)
	}
	if set["browser"] {
		cfg.Browser = f.chrome.browser
	}
	if set["print-background"] {
		cfg.PrintBackground = f.chrome.printBackground
	}
	if set["timeout"] {
		cfg.Timeout = f.chrome.timeout
	}
	if set["page-size"] {
		cfg.Page.Size = f.chrome.pageSize
	}
	if set["landscape"] {
		cfg.Page.Landscape = f.chrome.landscape
	}
	if set["margin"] {
		cfg.Page.Margin = f.chrome.margin
	}
}

// exportOnce runs the HTML then browser export for the plan.
func exportOnce(ctx context.Context, plan *exportPlan, env *Environment, out *printer) error {
	exporter, err := env.NewExporter(plan.cfg)
	if err != nil {
		return err
	}

	orch := mdexport.NewOrchestrator(exporter, plan.fileType)
	orch.Offline = plan.offline
	orch.ReplayChunks = plan.replay
	orch.Done = out.artifact

	start := env.Now()
	arts, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, a := range arts {
		failed = max(failed, a.ChunksFailed)
	}
	out.chunkFailures(failed)
	out.debugf("total: %s", env.Now().Sub(start).Round(time.Millisecond))
	return nil
}
