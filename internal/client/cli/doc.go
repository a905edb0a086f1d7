// Package cli provides the interactive SmartTask console.
//
// It loads the record files directly (no server involved), asks for
// credentials and runs a read-eval-print loop over the account and task
// services. Passwords are read without echo.
//
// Logged out:
//   - register, login, help, exit | quit
//
// Logged in:
//   - list [status], add, edit <id>, delete <id>
//   - complete <id>, pending <id>
//   - category <name>, priority <level>, overdue, today
//   - search <text>, sort <due|due-desc|priority>, stats
//   - profile [edit], passwd, logout, help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends. See runREPL for the dispatch rules.
package cli
