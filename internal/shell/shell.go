package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"

	"github.com/clck-dev/clck/internal/logger"
	"github.com/clck-dev/clck/internal/mailbox"
	"github.com/clck-dev/clck/internal/registry"
	"github.com/clck-dev/clck/internal/slug"
)

const timeFormat = "2006-01-02 15:04:05"

// Shell is the interactive console surface: it reads commands line by
// line, calls the registry and renders results. All state lives in the
// injected store and mailbox.
type Shell struct {
	store   *registry.Store
	mailbox *mailbox.Mailbox
	base    string
	log     *logger.Logger

	in  io.Reader
	out io.Writer

	// openURL hands a resolved target to the external viewer.
	// Swapped out in tests.
	openURL func(url string) error
}

// New creates a shell bound to the given in/out streams.
func New(store *registry.Store, mb *mailbox.Mailbox, base string, log *logger.Logger, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		store:   store,
		mailbox: mb,
		base:    base,
		log:     log,
		in:      in,
		out:     out,
		openURL: browser.OpenURL,
	}
}

// Run reads and executes commands until `exit` or end of input.
func (s *Shell) Run() {
	fmt.Fprintln(s.out, "Console URL shortener. Type 'help' for the list of commands.")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "\n> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			fmt.Fprintln(s.out, "Shutting down...")
			break
		}
		if strings.EqualFold(line, "help") {
			s.printHelp()
			continue
		}
		if err := s.handle(line); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Error("reading input failed", "error", err.Error())
	}
}

func (s *Shell) handle(line string) error {
	tokens := tokenize(line)
	if len(tokens) == 0 {
		return nil
	}

	switch strings.ToLower(tokens[0]) {
	case "new":
		return s.cmdNew(tokens)
	case "open":
		return s.cmdOpen(tokens)
	case "list":
		return s.cmdList(tokens)
	case "delete":
		return s.cmdDelete(tokens)
	case "notifications":
		return s.cmdNotifications(tokens)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help'.")
		return nil
	}
}

func (s *Shell) cmdNew(tokens []string) error {
	if len(tokens) < 2 {
		fmt.Fprintln(s.out, "Usage: new <url> [--limit N] [--user <uuid>]")
		return nil
	}

	args, err := parseCreateArgs(tokens)
	if err != nil {
		return err
	}

	newOwner := false
	if !args.hasOwner {
		args.owner = uuid.New()
		newOwner = true
	}

	link, err := s.store.Create(args.owner, args.target, args.limit)
	if err != nil {
		return err
	}

	if newOwner {
		fmt.Fprintf(s.out, "Generated owner UUID: %s\n", args.owner)
	}
	fmt.Fprintf(s.out, "Short link: %s\n", s.shortURL(link.Slug))
	fmt.Fprintf(s.out, "Original:   %s\n", link.Target)
	fmt.Fprintf(s.out, "Limit:      %s\n", link.Limit)
	fmt.Fprintf(s.out, "Remaining:  %s\n", link.Remaining)
	fmt.Fprintf(s.out, "Expires at: %s\n", link.ExpiresAt.Format(timeFormat))
	return nil
}

func (s *Shell) cmdOpen(tokens []string) error {
	if len(tokens) < 2 {
		fmt.Fprintln(s.out, "Usage: open <short|slug>")
		return nil
	}
	raw := tokens[1]
	sl := extractSlug(raw, s.base)
	if !slug.Valid(sl) {
		fmt.Fprintf(s.out, "Link not found: %s\n", raw)
		return nil
	}

	target, err := s.store.Consume(sl)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		fmt.Fprintf(s.out, "Link not found: %s\n", raw)
		return nil
	case errors.Is(err, registry.ErrExpired):
		fmt.Fprintln(s.out, "Link unavailable: its lifetime has expired.")
		return nil
	case errors.Is(err, registry.ErrLimitExhausted):
		fmt.Fprintln(s.out, "Link unavailable: click limit exhausted.")
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(s.out, "Opening: %s\n", target)
	if err := s.openURL(target); err != nil {
		fmt.Fprintf(s.out, "Could not open a browser: %v. Open manually: %s\n", err, target)
	}
	return nil
}

func (s *Shell) cmdList(tokens []string) error {
	owner, err := findOwner(tokens)
	if err != nil {
		return err
	}

	links := s.store.ListByOwner(owner)
	if len(links) == 0 {
		fmt.Fprintf(s.out, "No links for owner %s\n", owner)
		return nil
	}

	now := time.Now()
	fmt.Fprintf(s.out, "Links of owner %s:\n", owner)
	for _, link := range links {
		marker := ""
		if link.ExpiredAt(now) {
			marker = " [expired]"
		}
		fmt.Fprintf(s.out, "- %s -> %s | limit: %s, remaining: %s, expires: %s%s\n",
			s.shortURL(link.Slug),
			link.Target,
			link.Limit,
			link.Remaining,
			link.ExpiresAt.Format(timeFormat),
			marker)
	}
	return nil
}

func (s *Shell) cmdDelete(tokens []string) error {
	if len(tokens) < 2 {
		fmt.Fprintln(s.out, "Usage: delete <short|slug> --user <uuid>")
		return nil
	}
	raw := tokens[1]
	sl := extractSlug(raw, s.base)

	owner, err := findOwner(tokens)
	if err != nil {
		return err
	}

	switch err := s.store.Delete(sl, owner); {
	case errors.Is(err, registry.ErrNotFound):
		fmt.Fprintf(s.out, "Link not found: %s\n", raw)
	case errors.Is(err, registry.ErrForbidden):
		fmt.Fprintln(s.out, "Delete denied: the link belongs to another owner.")
	case err != nil:
		return err
	default:
		fmt.Fprintf(s.out, "Link deleted: %s\n", s.shortURL(sl))
	}
	return nil
}

func (s *Shell) cmdNotifications(tokens []string) error {
	owner, err := findOwner(tokens)
	if err != nil {
		return err
	}

	notes := s.mailbox.Drain(owner)
	if len(notes) == 0 {
		fmt.Fprintln(s.out, "No notifications.")
		return nil
	}
	fmt.Fprintln(s.out, "Notifications:")
	for _, n := range notes {
		fmt.Fprintf(s.out, "[%s] %s\n", n.CreatedAt.Format(timeFormat), n.Message)
	}
	return nil
}

func (s *Shell) shortURL(sl string) string {
	return s.base + sl
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Available commands:
  new <url> [--limit N] [--user <uuid>]      Create a short link. Without --user a fresh UUID is generated.
  open <short|slug>                          Follow a short link (opens the browser), honoring limit and TTL.
  list --user <uuid>                         Show all links of an owner.
  delete <short|slug> --user <uuid>          Delete a link (owner only).
  notifications --user <uuid>                Show and clear the owner's notifications.
  help                                       Show this help.
  exit                                       Quit.
Examples:
  new https://example.com/some/long/path --limit 3
  new https://example.com --user 11111111-1111-1111-1111-111111111111
  open `+s.base+`Ab9ZxQ1c
  list --user 11111111-1111-1111-1111-111111111111
`)
}
