package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	listProjects bool
	listDatasets bool
	listProjName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects or uploaded datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listProjects == listDatasets { // either both true or both false
			return errors.New("specify exactly one of --projects or --datasets")
		}
		out := cmd.OutOrStdout()
		if listProjects {
			return listAllProjects(cmd)
		}
		if listProjName == "" {
			return errors.New("--project is required when using --datasets")
		}
		p, err := loadProjectByName(listProjName)
		if err != nil {
			return err
		}
		ds := p.SortedDatasets()
		if len(ds) == 0 {
			fmt.Fprintln(out, "(no datasets)")
			return nil
		}
		for _, d := range ds {
			fmt.Fprintf(out, "- %s: %d rows x %d columns [%s] (id %s)\n",
				d.Filename, d.Rows, len(d.Columns), strings.Join(d.Columns, ", "), d.ID)
		}
		return nil
	},
}

func listAllProjects(cmd *cobra.Command) error {
	root, err := defaultProjectsDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return errors.Wrap(err, "read projects dir")
	}
	out := cmd.OutOrStdout()
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		pj := filepath.Join(root, e.Name(), "project.json")
		if _, err := os.Stat(pj); err == nil {
			fmt.Fprintf(out, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(out, "(no projects)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listProjects, "projects", false, "list projects")
	listCmd.Flags().BoolVar(&listDatasets, "datasets", false, "list datasets in a project")
	listCmd.Flags().StringVarP(&listProjName, "project", "p", "", "project name for --datasets")
}
