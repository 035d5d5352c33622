package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool
	login(ctx context.Context) error
	logout(ctx context.Context)
	showFeed()
	refresh(ctx context.Context)
	loadMore(ctx context.Context)
	createPost(ctx context.Context)
	like(ctx context.Context, args []string)
	comment(ctx context.Context, args []string)
	uncomment(ctx context.Context, args []string)
	deletePost(ctx context.Context, args []string)
}

// runREPL starts a simple read-eval-print loop for the Phototrail CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Not logged in:
//	  - help                           — show available commands
//	  - login                          — authenticate via the browser flow
//	  - exit | quit                    — leave the program
//
//	Logged in:
//	  - help                           — show available commands
//	  - feed                           — print the cached feed
//	  - more                           — fetch the next older page
//	  - refresh                        — fetch the newest page
//	  - post                           — publish a new post
//	  - like <id>                      — toggle a like on a post
//	  - comment <id>                   — add a comment to a post
//	  - uncomment <post> <comment>     — remove a comment
//	  - rm <id>                        — delete a post
//	  - logout                         — log out
//	  - exit | quit                    — leave the program
//
// Errors returned by command handlers are reported by the handlers
// themselves; the loop stays up regardless.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, out io.Writer) {
	fmt.Fprintln(out, "Welcome to the Phototrail CLI (type 'help' for commands)")

	for {
		fmt.Fprintf(out, "pt %s> ", statusFn())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: feed, more, refresh, post, like <id>, comment <id>, uncomment <post> <comment>, rm <id>, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: login, exit")
			}
		case "login":
			if err := a.login(ctx); err != nil {
				fmt.Fprintln(out, "login failed:", err)
			}
		case "logout":
			a.logout(ctx)
		case "feed":
			a.showFeed()
		case "more":
			a.loadMore(ctx)
		case "refresh":
			a.refresh(ctx)
		case "post":
			a.createPost(ctx)
		case "like":
			a.like(ctx, args)
		case "comment":
			a.comment(ctx, args)
		case "uncomment":
			a.uncomment(ctx, args)
		case "rm":
			a.deletePost(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}

func (a *App) getStatus() string {
	s, ok := a.sessions.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s)", s.UserName)
}

func (a *App) root(ctx context.Context) {
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin), a.out)
}
