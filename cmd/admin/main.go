package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"gnacomplaints/backend/internal/cache"
	"gnacomplaints/backend/internal/complaint"
	"gnacomplaints/backend/internal/config"
	"gnacomplaints/backend/internal/format"
	"gnacomplaints/backend/internal/logging"
	"gnacomplaints/backend/internal/models"
	"gnacomplaints/backend/internal/storage"

	"github.com/joho/godotenv"
)

const usage = `Usage: admin <command> [args]

Commands:
  list                      list every complaint, newest first
  show <id>                 print one complaint
  resolve <id> [comment]    mark a complaint completed
  reopen <id> [comment]     mark a complaint pending again`

var errUsage = errors.New(usage)

func main() {
	if err := openAndRun(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Println(err)
			os.Exit(1)
		}
		log.Fatal(err)
	}
}

func openAndRun(args []string) error {
	_ = godotenv.Load()
	cfg := config.Load()
	logging.Setup("warn")

	if len(args) == 0 {
		return errUsage
	}

	ctx := context.Background()
	store, rdb, err := storage.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if rdb == nil {
		return fmt.Errorf("admin needs a persistent store, STORE_DRIVER is %q", cfg.StoreDriver)
	}
	defer rdb.Close()

	svc := complaint.NewService(store, cfg.ComplaintsPath, cfg.CounterPath, cfg.Location())
	svc.Invalidator = cache.NewRedisCache(rdb, cfg.ViewCacheTTL)

	return run(ctx, svc, args, os.Stdout)
}

// run executes one command against svc and writes its output to out.
func run(ctx context.Context, svc *complaint.Service, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	command, args := args[0], args[1:]
	switch command {
	case "list":
		return listComplaints(ctx, svc, out)
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("%w\n\nadmin show <id>", errUsage)
		}
		return showComplaint(ctx, svc, args[0], out)
	case "resolve", "reopen":
		if len(args) < 1 {
			return fmt.Errorf("%w\n\nadmin %s <id> [comment]", errUsage, command)
		}
		status := models.StatusCompleted
		if command == "reopen" {
			status = models.StatusPending
		}
		res := svc.UpdateComplaint(ctx, args[0], status, strings.Join(args[1:], " "))
		if !res.Success {
			return errors.New(res.Message)
		}
		_, err := fmt.Fprintln(out, res.Message)
		return err
	default:
		return fmt.Errorf("unknown command %q\n\n%w", command, errUsage)
	}
}

func listComplaints(ctx context.Context, svc *complaint.Service, out io.Writer) error {
	view := svc.LoadListView(ctx)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tSTATUS\tDATE\tNAME\tDEPT\tISSUE")
	n := len(view.Complaints)
	for i, c := range view.Complaints {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			view.SerialOffset+n-i, c.ID, format.StatusLabel(c.Status()), format.Date(c.ReportedDate),
			format.Name(c.Name), format.Code(c.Department), truncate(format.Issue(c.Issue), 40))
	}
	return w.Flush()
}

func showComplaint(ctx context.Context, svc *complaint.Service, id string, out io.Writer) error {
	c, ok := svc.GetComplaint(ctx, id)
	if !ok {
		return fmt.Errorf("complaint %s not found", id)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\n", c.ID)
	fmt.Fprintf(w, "Name\t%s\n", format.Name(c.Name))
	fmt.Fprintf(w, "Department\t%s\n", format.Code(c.Department))
	fmt.Fprintf(w, "Block\t%s\n", format.Code(c.Block))
	fmt.Fprintf(w, "Room\t%s\n", format.Code(c.Room))
	fmt.Fprintf(w, "Reported\t%s\n", format.Date(c.ReportedDate))
	fmt.Fprintf(w, "Status\t%s\n", format.StatusLabel(c.Status()))
	if c.Resolution.IsCompleted() {
		fmt.Fprintf(w, "Resolved At\t%s\n", c.ResolvedAt())
	}
	fmt.Fprintf(w, "Issue\t%s\n", format.Issue(c.Issue))
	fmt.Fprintf(w, "Comment\t%s\n", format.Comment(c.Comment))
	return w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
