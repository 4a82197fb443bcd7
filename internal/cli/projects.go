package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mysomang/mytalk/internal/config"
	"github.com/mysomang/mytalk/internal/store"
)

var (
	flagProjSearch   string
	flagProjCategory string
	flagProjSort     string
	flagProjDataDir  string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List saved projects",
	RunE:  runProjectsList,
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project's files",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsShow,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and its files",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

func init() {
	projectsCmd.AddCommand(projectsShowCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)

	projectsCmd.PersistentFlags().StringVarP(&flagProjDataDir, "data-dir", "D", "", "Data directory (default mytalk_data)")
	projectsCmd.Flags().StringVarP(&flagProjSearch, "search", "s", "", "Filter by title substring")
	projectsCmd.Flags().StringVarP(&flagProjCategory, "category", "c", "", "Filter by category")
	projectsCmd.Flags().StringVar(&flagProjSort, "sort", "newest", "Sort order: newest or title")
}

func projectStore() (*store.Store, error) {
	settings, err := config.Load(flagProjDataDir)
	if err != nil {
		return nil, err
	}
	return store.New(settings.DataDir), nil
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	if flagProjSort != "newest" && flagProjSort != "title" {
		return fmt.Errorf("invalid sort %q: must be newest or title", flagProjSort)
	}

	st, err := projectStore()
	if err != nil {
		return err
	}

	entries, err := st.Projects(store.ListOptions{
		Search:   flagProjSearch,
		Category: flagProjCategory,
		Sort:     flagProjSort,
	})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	fmt.Printf("%-28s %-30s %-12s %s\n", "ID", "TITLE", "CATEGORY", "CREATED")
	fmt.Println(strings.Repeat("─", 86))
	for _, e := range entries {
		title := e.Title
		if len(title) > 28 {
			title = title[:28] + "…"
		}
		fmt.Printf("%-28s %-30s %-12s %s\n", e.ProjectID, title, e.Category, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runProjectsShow(cmd *cobra.Command, args []string) error {
	st, err := projectStore()
	if err != nil {
		return err
	}

	p, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("\n%s", p.Meta.Title)
	if p.Meta.KoreanTitle != "" {
		fmt.Printf("  ·  %s", p.Meta.KoreanTitle)
	}
	fmt.Printf("\n%s\n", strings.Repeat("─", 50))
	fmt.Printf("ID:       %s\n", p.Meta.ProjectID)
	fmt.Printf("Category: %s\n", p.Meta.Category)
	fmt.Printf("Created:  %s\n", p.Meta.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Dir:      %s\n", p.Dir)

	for _, v := range p.Meta.Versions {
		fmt.Printf("\n  %s:\n", v)
		for _, f := range p.Meta.SavedFiles[v] {
			fmt.Printf("    %s\n", f)
		}
		for _, f := range p.Meta.SavedFiles[v+"_audio"] {
			fmt.Printf("    %s\n", f)
		}
	}
	fmt.Println()
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	st, err := projectStore()
	if err != nil {
		return err
	}
	if err := st.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted project %s\n", args[0])
	return nil
}
