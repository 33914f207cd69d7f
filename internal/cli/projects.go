package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/util"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "Manage registered team projects",
	Long: `Manage the shared registry of team projects. A project has a manager,
a client liaison and at least one assigned user. Time entries are matched to
registered projects by name.`,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a project",
	Long: `Register a project. The current user is the manager unless --manager is
given.

Examples:
  mtrack projects create "Apollo" --liaison "Client Co" --assign <user-id> --assign <user-id>`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectsCreate,
}

var projectsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered projects",
	Args:    cobra.NoArgs,
	RunE:    runProjectsList,
}

var projectsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsEdit,
}

var projectsCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a project as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsComplete,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project (manager only)",
	Long: `Delete a project. Only the project manager can delete it, and the exact
project name must be passed with --confirm.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectsDelete,
}

// Flags
var (
	projectName    string
	projectManager string
	projectLiaison string
	projectAssign  []string
	projectConfirm string
	projectMine    bool
)

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsEditCmd)
	projectsCmd.AddCommand(projectsCompleteCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)

	projectsCreateCmd.Flags().StringVar(&projectManager, "manager", "", "Manager user id (default: you)")
	projectsCreateCmd.Flags().StringVar(&projectLiaison, "liaison", "", "Client liaison")
	projectsCreateCmd.Flags().StringSliceVar(&projectAssign, "assign", nil, "Assigned user id (repeatable)")

	projectsEditCmd.Flags().StringVar(&projectName, "name", "", "Project name")
	projectsEditCmd.Flags().StringVar(&projectManager, "manager", "", "Manager user id")
	projectsEditCmd.Flags().StringVar(&projectLiaison, "liaison", "", "Client liaison")
	projectsEditCmd.Flags().StringSliceVar(&projectAssign, "assign", nil, "Assigned user ids, replacing the current ones")

	projectsListCmd.Flags().BoolVar(&projectMine, "mine", false, "Only projects you manage or are assigned to")

	projectsDeleteCmd.Flags().StringVar(&projectConfirm, "confirm", "", "Project name, typed exactly")
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	manager := projectManager
	if manager == "" {
		manager = user.ID
	}

	p, err := app.Projects.Create(ctx, domain.ProjectInput{
		Name:          args[0],
		ManagerID:     manager,
		Liaison:       projectLiaison,
		AssignedUsers: projectAssign,
	})
	if err != nil {
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Created project %s", p.Name)
	fmt.Fprintln(cmd.OutOrStdout(), styles().Muted.Render("id: "+p.ID))
	return nil
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	list, err := app.Projects.List(ctx)
	if projectMine {
		list, err = app.Projects.ForUser(ctx, user.ID)
	}
	if err != nil {
		return err
	}

	names, err := app.Identity.UserNames(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printTitle(out, "Projects")
	if len(list) == 0 {
		printEmpty(out, "")
		return nil
	}

	s := styles()
	for _, p := range list {
		status := s.Running.Render(p.Status())
		if p.Completed {
			status = s.Muted.Render(p.Status())
		}
		fmt.Fprintf(out, "%s  %s\n", s.Subtitle.Render(p.Name), status)
		printRow(out, "ID", p.ID)
		printRow(out, "Manager", displayName(names, p.ManagerID))
		if p.Liaison != "" {
			printRow(out, "Liaison", p.Liaison)
		}
		assigned := make([]string, 0, len(p.AssignedUsers))
		for _, id := range p.AssignedUsers {
			assigned = append(assigned, displayName(names, id))
		}
		printRow(out, "Assigned", fmt.Sprintf("%v", assigned))
		printRow(out, "Updated", util.FormatDateHuman(p.UpdatedAt.Local()))
	}
	return nil
}

func runProjectsEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := app.CurrentUser(ctx); err != nil {
		return err
	}

	current, err := app.Projects.Get(ctx, args[0])
	if err != nil {
		return err
	}

	in := domain.ProjectInput{
		Name:          current.Name,
		ManagerID:     current.ManagerID,
		Liaison:       current.Liaison,
		AssignedUsers: current.AssignedUsers,
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = projectName
	}
	if flags.Changed("manager") {
		in.ManagerID = projectManager
	}
	if flags.Changed("liaison") {
		in.Liaison = projectLiaison
	}
	if flags.Changed("assign") {
		in.AssignedUsers = projectAssign
	}

	p, err := app.Projects.Edit(ctx, args[0], in)
	if err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Updated project %s", p.Name)
	return nil
}

func runProjectsComplete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if _, err := app.CurrentUser(ctx); err != nil {
		return err
	}

	p, err := app.Projects.Complete(ctx, args[0])
	if err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Project %s completed", p.Name)
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	user, err := app.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if err := app.Projects.Delete(ctx, user.ID, args[0], projectConfirm); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Deleted project %s", projectConfirm)
	return nil
}
