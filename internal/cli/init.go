package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sceneforge/sceneforge/pkg/diagram"
)

// initCommand creates the init command, which writes a starter request file.
func (c *CLI) initCommand() *cobra.Command {
	var (
		kindName string
		output   string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample request file to edit",
		Long: `Write a sample request file for a diagram kind.

The file carries the family's complete defaults, so it renders as-is with
"sceneforge generate" and doubles as a reference for the available fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := kindAliases[kindName]
			if !ok {
				return fmt.Errorf("unknown kind %q, want one of: %s", kindName, strings.Join(kindNames(), ", "))
			}

			path := output
			if path == "" {
				path = kindName + ".yaml"
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				}
			}

			req := sampleRequest(kind)
			// Validation fills the family defaults, so the written file spells
			// out every field instead of an empty payload.
			if err := req.Validate(); err != nil {
				return err
			}
			if err := diagram.WriteRequestFile(req, path); err != nil {
				return fmt.Errorf("write request %s: %w", path, err)
			}

			printSuccess("%s", path)
			printNextStep("Render it", "sceneforge generate "+path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindName, "kind", "k", "http-flow", "diagram kind: http-flow, dns-resolution, data-structure, process-flow")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default <kind>.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
