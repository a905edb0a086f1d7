package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Passwd(ctx context.Context) error

	List(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	Pending(ctx context.Context, args []string) error
	Category(ctx context.Context, args []string) error
	Priority(ctx context.Context, args []string) error
	Overdue(ctx context.Context) error
	Today(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
}

// guestCommands are the only commands accepted before login.
var guestCommands = map[string]bool{
	"help": true, "register": true, "login": true, "exit": true, "quit": true,
}

// runREPL reads a line from reader, treats the first token as the command and
// dispatches to a. Errors returned by handlers are printed and the loop goes
// on. The loop exits on EOF, on "exit" or "quit", or when ctx is cancelled.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("st %s> ", statusFn()))
		line, ok := readLine(reader)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if !a.isLoggedIn() && !guestCommands[cmd] {
			if _, known := commandHelp[cmd]; known {
				printlnFn("Please login first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		var err error
		switch cmd {
		case "help":
			printHelp(a.isLoggedIn())
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "profile":
			err = a.Profile(ctx, args)
		case "passwd":
			err = a.Passwd(ctx)
		case "l", "list":
			err = a.List(ctx, args)
		case "add":
			err = a.Add(ctx)
		case "edit":
			err = a.Edit(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "complete", "done":
			err = a.Complete(ctx, args)
		case "pending":
			err = a.Pending(ctx, args)
		case "category":
			err = a.Category(ctx, args)
		case "priority":
			err = a.Priority(ctx, args)
		case "overdue":
			err = a.Overdue(ctx)
		case "today":
			err = a.Today(ctx)
		case "search":
			err = a.Search(ctx, args)
		case "sort":
			err = a.Sort(ctx, args)
		case "stats":
			err = a.Stats(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

var commandHelp = map[string]string{
	"register": "create an account",
	"login":    "sign in",
	"logout":   "sign out",
	"profile":  "show your profile; 'profile edit' to change it",
	"passwd":   "change your password",
	"list":     "list tasks, optionally by status (pending, completed, overdue, today)",
	"add":      "add a task",
	"edit":     "edit a task: edit <id>",
	"delete":   "delete a task: delete <id>",
	"complete": "mark a task completed: complete <id>",
	"pending":  "mark a task pending: pending <id>",
	"category": "tasks in a category: category <name>",
	"priority": "tasks of a priority: priority <high|medium|low>",
	"overdue":  "pending tasks past their due time",
	"today":    "pending tasks due today",
	"search":   "search task titles: search <text>",
	"sort":     "sorted tasks: sort <due|due-desc|priority>",
	"stats":    "task statistics",
}

var (
	guestHelpOrder = []string{"register", "login"}
	userHelpOrder  = []string{
		"list", "add", "edit", "delete", "complete", "pending",
		"category", "priority", "overdue", "today", "search", "sort", "stats",
		"profile", "passwd", "logout",
	}
)

func printHelp(loggedIn bool) {
	order := guestHelpOrder
	if loggedIn {
		order = userHelpOrder
	}
	printlnFn("Available commands:")
	for _, c := range order {
		printlnFn(fmt.Sprintf("  %-9s %s", c, commandHelp[c]))
	}
	printlnFn(fmt.Sprintf("  %-9s %s", "exit", "leave the program"))
}
