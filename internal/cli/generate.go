package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sceneforge/sceneforge/pkg/config"
	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/pipeline"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// kindAliases maps CLI-friendly names to diagram kinds for --kind.
var kindAliases = map[string]scene.Family{
	"http-flow":      scene.FamilyProtocol,
	"dns-resolution": scene.FamilyResolution,
	"data-structure": scene.FamilyStructure,
	"process-flow":   scene.FamilyFlow,
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		configPath string
		kindName   string
		scriptOnly bool
		scriptOut  string
		noCache    bool
		parallel   int
	)

	cmd := &cobra.Command{
		Use:   "generate [request.yaml...]",
		Short: "Generate diagram videos from request files",
		Long: `Generate animated diagram videos from declarative request files.

Each request file describes one diagram: its kind (http-flow, dns-resolution,
data-structure, or process-flow) and the family parameters. Multiple files
render concurrently.

Without a file, --kind generates the family's built-in sample diagram, which
is useful for checking the renderer setup.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			reqs, names, err := collectRequests(args, kindName)
			if err != nil {
				return err
			}

			runner, store, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer store.Close()

			return c.runGenerate(cmd.Context(), runner, reqs, names, generateParams{
				scriptOnly: scriptOnly,
				scriptOut:  scriptOut,
				parallel:   parallel,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to sceneforge.toml")
	cmd.Flags().StringVarP(&kindName, "kind", "k", "", "generate a sample diagram: http-flow, dns-resolution, data-structure, process-flow")
	cmd.Flags().BoolVar(&scriptOnly, "script-only", false, "emit the scene script without rendering")
	cmd.Flags().StringVar(&scriptOut, "script-out", "", "directory for emitted scripts (implies --script-only)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 2, "max concurrent renders")

	return cmd
}

// collectRequests loads the request files, or builds a sample request from
// --kind when no files are given.
func collectRequests(args []string, kindName string) ([]*diagram.Request, []string, error) {
	if len(args) == 0 {
		if kindName == "" {
			return nil, nil, fmt.Errorf("give request files or --kind")
		}
		kind, ok := kindAliases[kindName]
		if !ok {
			return nil, nil, fmt.Errorf("unknown kind %q, want one of: %s", kindName, strings.Join(kindNames(), ", "))
		}
		req := sampleRequest(kind)
		if err := req.Validate(); err != nil {
			return nil, nil, err
		}
		return []*diagram.Request{req}, []string{kindName}, nil
	}

	reqs := make([]*diagram.Request, 0, len(args))
	names := make([]string, 0, len(args))
	for _, path := range args {
		req, err := diagram.ReadRequestFile(path)
		if err != nil {
			return nil, nil, err
		}
		reqs = append(reqs, req)
		names = append(names, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	return reqs, names, nil
}

// sampleRequest builds the built-in sample diagram for a kind. Most families
// have complete defaults; process flows need explicit stages, since an empty
// flow is rejected rather than defaulted.
func sampleRequest(kind scene.Family) *diagram.Request {
	req := &diagram.Request{Kind: kind}
	if kind == scene.FamilyFlow {
		req.Flow = &diagram.FlowParams{
			Title: "Request Lifecycle",
			Stages: []diagram.Stage{
				{Name: "Receive", Type: diagram.StageStart},
				{Name: "Validate", Type: diagram.StageProcess},
				{Name: "Authorized?", Type: diagram.StageDecision},
				{Name: "Handle", Type: diagram.StageProcess},
				{Name: "Respond", Type: diagram.StageEnd},
			},
		}
	}
	return req
}

func kindNames() []string {
	names := make([]string, 0, len(kindAliases))
	for name := range kindAliases {
		names = append(names, name)
	}
	return names
}

type generateParams struct {
	scriptOnly bool
	scriptOut  string
	parallel   int
}

// runGenerate executes the pipeline for every request, bounded by the
// parallelism limit.
func (c *CLI) runGenerate(ctx context.Context, runner *pipeline.Runner, reqs []*diagram.Request, names []string, params generateParams) error {
	scriptOnly := params.scriptOnly || params.scriptOut != ""

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d scene(s)...", len(reqs)))
	spinner.Start()

	results := make([]*pipeline.Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(params.parallel, 1))
	for i, req := range reqs {
		g.Go(func() error {
			result, err := runner.Execute(gctx, pipeline.Options{
				Request:    req,
				SkipRender: scriptOnly,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", names[i], err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	for i, result := range results {
		printSuccess("%s", names[i])
		printSceneStats(len(result.Plan.Elements), len(result.Plan.Steps), result.CacheInfo.PlanHit)
		if scriptOnly {
			if params.scriptOut != "" {
				path, err := writeScript(params.scriptOut, result)
				if err != nil {
					return err
				}
				printFile(path)
			}
			continue
		}
		printFile(result.Artifact.Path)
	}

	if scriptOnly && params.scriptOut == "" {
		printNextStep("Render the scripts", "sceneforge generate "+strings.Join(names, " "))
	}
	return nil
}

// writeScript saves an emitted script under the output directory.
func writeScript(dir string, result *pipeline.Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, result.ClassName+".py")
	if err := os.WriteFile(path, []byte(result.Script.Source), 0644); err != nil {
		return "", err
	}
	return path, nil
}
