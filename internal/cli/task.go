package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/factkeeper/internal/ports/primary"
	"github.com/example/factkeeper/internal/wire"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage knowledge maintenance tasks",
	Long: `Generate, classify, track and execute knowledge maintenance tasks.

Tasks are classified once when created: titles naming human work (confirm,
ask, stakeholder, meeting...) need a person; titles naming data work
(update, merge, consolidate...) on facts or data can be executed by the oracle.`,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		human, _ := cmd.Flags().GetBool("human")
		automated, _ := cmd.Flags().GetBool("automated")
		limit, _ := cmd.Flags().GetInt("limit")

		filters, err := taskFilters(status, human, automated, limit)
		if err != nil {
			return err
		}
		return wire.TaskAdapter().List(context.Background(), filters)
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Classify and store a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.TaskAdapter().Create(context.Background(), strings.Join(args, " "))
	},
}

var taskGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Ask the oracle for new maintenance tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return wire.TaskAdapter().Generate(ctx)
	},
}

var taskClassifyCmd = &cobra.Command{
	Use:   "classify <title>",
	Short: "Show whether a task title needs a human",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.TaskAdapter().Classify(strings.Join(args, " "))
	},
}

var taskStartCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Mark a task in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTaskID(args[0], func(adapter taskTransitioner, id int64) error {
			return adapter.Start(context.Background(), id)
		})
	},
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTaskID(args[0], func(adapter taskTransitioner, id int64) error {
			return adapter.Complete(context.Background(), id)
		})
	},
}

var taskCancelCmd = &cobra.Command{
	Use:   "cancel <task-id>",
	Short: "Mark a task cancelled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTaskID(args[0], func(adapter taskTransitioner, id int64) error {
			return adapter.Cancel(context.Background(), id)
		})
	},
}

var taskSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count tasks by status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.TaskAdapter().Summary(context.Background())
	},
}

var taskExecuteCmd = &cobra.Command{
	Use:   "execute",
	Short: "Apply pending automated tasks to the knowledge base",
	Long: `Apply every pending task that does not need a human.

By default each task gets its own oracle call and is removed once the updated
knowledge base is saved. With --batch all tasks go into a single call and are
removed together; if that call fails every task stays pending.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, _ := cmd.Flags().GetBool("batch")
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return wire.ReconcileAdapter().Execute(ctx, batch)
	},
}

func init() {
	taskListCmd.Flags().StringP("status", "s", "", "Filter by status (pending, in_progress, completed, cancelled)")
	taskListCmd.Flags().Bool("human", false, "Only tasks that need a human")
	taskListCmd.Flags().Bool("automated", false, "Only tasks the oracle can execute")
	taskListCmd.Flags().IntP("limit", "n", 0, "Maximum number of tasks")
	taskExecuteCmd.Flags().Bool("batch", false, "Execute all tasks in one oracle call")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskGenerateCmd)
	taskCmd.AddCommand(taskClassifyCmd)
	taskCmd.AddCommand(taskStartCmd)
	taskCmd.AddCommand(taskCompleteCmd)
	taskCmd.AddCommand(taskCancelCmd)
	taskCmd.AddCommand(taskSummaryCmd)
	taskCmd.AddCommand(taskExecuteCmd)
}

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	return taskCmd
}

type taskTransitioner interface {
	Start(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
}

func withTaskID(arg string, fn func(taskTransitioner, int64) error) error {
	id, err := parseTaskID(arg)
	if err != nil {
		return err
	}
	return fn(wire.TaskAdapter(), id)
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func taskFilters(status string, human, automated bool, limit int) (primary.TaskFilters, error) {
	if human && automated {
		return primary.TaskFilters{}, fmt.Errorf("--human and --automated are mutually exclusive")
	}
	filters := primary.TaskFilters{Status: status, Limit: limit}
	if human || automated {
		filters.RequiresHuman = &human
	}
	return filters, nil
}
