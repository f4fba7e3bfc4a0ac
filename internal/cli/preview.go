package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/diagram/layout"
	"github.com/sceneforge/sceneforge/pkg/render/preview"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		output  string
		dotOnly bool
	)

	cmd := &cobra.Command{
		Use:   "preview <request.yaml>",
		Short: "Render a static SVG preview of a scene plan",
		Long: `Render a static diagram preview of a request's scene plan.

The preview shows the plan's elements and step ordering without invoking the
video renderer, so it is fast and needs no renderer installation. Use --dot
to print the Graphviz source instead of rendering SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := diagram.ReadRequestFile(args[0])
			if err != nil {
				return err
			}
			plan, err := layout.Build(req)
			if err != nil {
				return err
			}
			c.Logger.Debug("built plan for preview",
				"kind", req.Kind, "elements", len(plan.Elements), "steps", len(plan.Steps))

			if dotOnly {
				fmt.Print(preview.ToDOT(plan))
				return nil
			}

			svg, err := preview.RenderSVG(cmd.Context(), plan)
			if err != nil {
				return fmt.Errorf("render preview: %w", err)
			}

			if output == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				output = base + ".svg"
			}
			if err := os.WriteFile(output, svg, 0644); err != nil {
				return err
			}
			printSuccess("Preview written")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG file (default: request name + .svg)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "print Graphviz DOT instead of rendering SVG")

	return cmd
}
