package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/clck-dev/clck/internal/model"
	"github.com/clck-dev/clck/internal/registry"
)

// Custom errors for command parsing
var (
	ErrUnknownOption   = errors.New("unknown option")
	ErrInvalidIdentity = errors.New("owner id must be a valid UUID")
	ErrMissingOwner    = errors.New("specify --user <uuid>")
)

// tokenize splits a command line on runs of whitespace.
func tokenize(line string) []string {
	return strings.Fields(line)
}

// createArgs carries the parsed options of a `new` command.
type createArgs struct {
	target   string
	limit    model.ClickLimit
	owner    model.Owner
	hasOwner bool
}

// parseCreateArgs parses `new <url> [--limit N] [--user <uuid>]`.
// The URL itself is validated by the registry, not here.
func parseCreateArgs(tokens []string) (createArgs, error) {
	args := createArgs{
		target: tokens[1],
		limit:  model.Unlimited(),
	}

	for i := 2; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "--limit":
			if i+1 >= len(tokens) {
				return args, fmt.Errorf("%w: --limit needs a value", registry.ErrInvalidLimit)
			}
			i++
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				return args, fmt.Errorf("%w: %q is not a number", registry.ErrInvalidLimit, tokens[i])
			}
			args.limit = model.Limit(n)
		case "--user":
			if i+1 >= len(tokens) {
				return args, ErrInvalidIdentity
			}
			i++
			owner, err := uuid.Parse(tokens[i])
			if err != nil {
				return args, fmt.Errorf("%w: %q", ErrInvalidIdentity, tokens[i])
			}
			args.owner = owner
			args.hasOwner = true
		default:
			return args, fmt.Errorf("%w: %s", ErrUnknownOption, tokens[i])
		}
	}

	return args, nil
}

// findOwner extracts the --user option from any command's tokens.
func findOwner(tokens []string) (model.Owner, error) {
	for i := 1; i < len(tokens); i++ {
		if strings.EqualFold(tokens[i], "--user") {
			if i+1 >= len(tokens) {
				return model.Owner{}, ErrMissingOwner
			}
			owner, err := uuid.Parse(tokens[i+1])
			if err != nil {
				return model.Owner{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, tokens[i+1])
			}
			return owner, nil
		}
	}
	return model.Owner{}, ErrMissingOwner
}

// extractSlug accepts a short form (`<base><slug>`), a full URL or a
// bare slug and returns the slug part.
func extractSlug(raw, base string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, base) {
		if idx := strings.LastIndex(raw, "/"); idx != -1 && idx+1 < len(raw) {
			return raw[idx+1:]
		}
	}
	return raw
}
