package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alexparks333/AlexPipeline/internal/models"
	"github.com/alexparks333/AlexPipeline/internal/scaffold"
	"github.com/alexparks333/AlexPipeline/internal/utils"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newTemplatesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the folder templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			catalog, err := opts.catalog(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tKIND\tFOLDERS\tNAME")
			for _, t := range catalog.List() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.Type, t.Kind, len(t.Folders), t.Name)
			}
			return w.Flush()
		},
	}
}

func newNextNumberCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "next-number",
		Short: "Print the next free YYNNNN project number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, closeDB, err := opts.projectService(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			next, err := projects.NextNumber(time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}
}

func newScanCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [root]",
		Short: "Register project folders found under <root>/Projects",
		Long:  `Without a root the studio root from settings is scanned. Folders that are already registered are skipped.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, closeDB, err := opts.projectService(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			result, err := projects.Scan(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range result.Added {
				fmt.Fprintf(out, "added   %s (%s)\n", p.FolderName, p.Type)
			}
			fmt.Fprintf(out, "%d added, %d skipped, %d registered\n", len(result.Added), result.Skipped, result.Total)
			return nil
		},
	}
}

func newMaterializeCmd(opts *cliOptions) *cobra.Command {
	var (
		projectType string
		shots       string
		name        string
		client      string
		apply       bool
	)

	cmd := &cobra.Command{
		Use:   "materialize <dir>",
		Short: "Create a template's folder tree without registering it",
		Long: `materialize writes a folder tree and its manifest into <dir>.
With --shots the shot template is used and --type is ignored.
By default <dir> must not exist; --apply adds missing folders to an existing tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			catalog, err := opts.catalog(cfg)
			if err != nil {
				return err
			}

			plan := catalog.FlatPlan(projectType)
			if shotList := splitList(shots); len(shotList) > 0 {
				if plan, err = catalog.ShotPlan(shotList); err != nil {
					return err
				}
			}

			info := scaffold.Info{Name: name, Client: client}
			engine := scaffold.NewOsEngine()
			var manifest *scaffold.Manifest
			if apply {
				if !utils.IsDir(args[0]) {
					return fmt.Errorf("%s is not an existing directory", args[0])
				}
				manifest, err = engine.Apply(args[0], plan, info)
			} else {
				manifest, err = engine.Create(args[0], plan, info)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(manifest)
		},
	}

	cmd.Flags().StringVarP(&projectType, "type", "t", "", "flat template type; unknown types fall back to the default")
	cmd.Flags().StringVar(&shots, "shots", "", "comma separated shot names, selects the shot template")
	cmd.Flags().StringVar(&name, "name", "", "project name recorded in the manifest")
	cmd.Flags().StringVar(&client, "client", "", "client recorded in the manifest")
	cmd.Flags().BoolVar(&apply, "apply", false, "add missing folders to an existing tree")
	return cmd
}

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			_, closeDB, err := opts.openDB(cfg)
			if err != nil {
				return err
			}
			closeDB()
			fmt.Fprintf(cmd.OutOrStdout(), "database %s (%s) is up to date\n", cfg.Database.DSN, cfg.Database.Driver)
			return nil
		},
	}
}

func newSeedToolsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-tools",
		Short: "Restore the sample tools when the tool list is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			db, closeDB, err := opts.openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			models.DB = db
			if err := models.SeedDefaultData(); err != nil {
				return err
			}

			var count int64
			if err := db.Model(&models.Tool{}).Count(&count).Error; err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tools registered\n", count)
			return nil
		},
	}
}

func newInitConfigCmd(opts *cliOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write a config file with the effective settings",
		Long:  `The written file reflects defaults plus any environment overrides. Defaults to config.yaml.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if !force {
				if exists, _ := fileExists(path); exists {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				}
			}

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(part string, _ int) string {
		return strings.TrimSpace(part)
	}))
}
