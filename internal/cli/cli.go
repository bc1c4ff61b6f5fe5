// Package cli implements the wishlist command line client. Every command
// drives a store.Store backed by the item API.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/utafrali/wishlist/internal/auth"
	"github.com/utafrali/wishlist/internal/client"
	"github.com/utafrali/wishlist/internal/config"
	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/store"
	"github.com/utafrali/wishlist/pkg/validator"
)

// ErrUsage is returned for malformed command lines. Usage has already been
// printed when it is returned.
var ErrUsage = errors.New("usage error")

// RepositoryFactory builds the repository a command's store talks to.
type RepositoryFactory func(cfg *config.ClientConfig, logger *slog.Logger) (store.Repository, error)

// Runner executes CLI commands.
type Runner struct {
	cfg     *config.ClientConfig
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
	newRepo RepositoryFactory
	render  *Renderer
}

// NewRunner creates a runner. A nil newRepo uses the HTTP client.
func NewRunner(cfg *config.ClientConfig, newRepo RepositoryFactory, out, errOut io.Writer, logger *slog.Logger) *Runner {
	if newRepo == nil {
		newRepo = HTTPRepository
	}
	return &Runner{
		cfg:     cfg,
		out:     out,
		errOut:  errOut,
		logger:  logger,
		newRepo: newRepo,
		render:  NewRenderer(out, cfg.Currency),
	}
}

// HTTPRepository builds the API client from cfg.
func HTTPRepository(cfg *config.ClientConfig, logger *slog.Logger) (store.Repository, error) {
	token, err := ResolveToken(cfg)
	if err != nil {
		return nil, err
	}
	return client.New(client.Config{
		BaseURL: cfg.APIURL,
		Token:   token,
		Timeout: cfg.Timeout.Duration,
	}, logger)
}

// ResolveToken returns the configured API token, minting one from the shared
// secret and owner when no token is set.
func ResolveToken(cfg *config.ClientConfig) (string, error) {
	if t := strings.TrimSpace(cfg.Token); t != "" {
		return t, nil
	}
	if cfg.JWTSecret == "" || cfg.Owner == "" {
		return "", errors.New("no API token configured: set token, or jwt_secret and owner")
	}
	return auth.NewJWTManager(cfg.JWTSecret, 0).GenerateToken(cfg.Owner)
}

type command struct {
	name    string
	usage   string
	summary string
	run     func(r *Runner, ctx context.Context, args []string) error
}

// commandTable lists the subcommands.
func commandTable() []command {
	return []command{
		{"list", "list [--source S] [--category C] [--priority P]", "show items and their total", (*Runner).list},
		{"add", "add --name N --link URL --source S --category C --price P [--priority P] [--image URL] [--bought]", "add an item", (*Runner).add},
		{"edit", "edit <id> [--name N] [--link URL] [--source S] [--category C] [--price P] [--priority P] [--image URL] [--bought=true|false]", "change an item", (*Runner).edit},
		{"rm", "rm <id>", "delete an item", (*Runner).remove},
		{"toggle", "toggle <id>", "flip an item's bought flag", (*Runner).toggle},
		{"sources", "sources", "list distinct sources", (*Runner).sources},
		{"categories", "categories", "list distinct categories", (*Runner).categories},
		{"token", "token [--owner O] [--expiry D]", "mint an API token from the shared secret", (*Runner).token},
	}
}

// Usage prints the command summary.
func (r *Runner) Usage() {
	fmt.Fprintln(r.errOut, "usage: wishlist [--config PATH] <command> [flags]")
	fmt.Fprintln(r.errOut)
	fmt.Fprintln(r.errOut, "commands:")
	for _, c := range commandTable() {
		fmt.Fprintf(r.errOut, "  %-11s %s\n", c.name, c.summary)
	}
}

// Execute runs the command named by args[0].
func (r *Runner) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		r.Usage()
		return ErrUsage
	}
	for _, c := range commandTable() {
		if c.name == args[0] {
			r.logger.DebugContext(ctx, "running command", slog.String("command", c.name))
			return c.run(r, ctx, args[1:])
		}
	}
	fmt.Fprintf(r.errOut, "unknown command %q\n", args[0])
	r.Usage()
	return ErrUsage
}

func (r *Runner) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.errOut)
	for _, c := range commandTable() {
		if c.name == name {
			fs.Usage = func() {
				fmt.Fprintf(r.errOut, "usage: wishlist %s\n", c.usage)
				fs.PrintDefaults()
			}
		}
	}
	return fs
}

func (r *Runner) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		// The flag package has already printed the problem and usage.
		return ErrUsage
	}
	return nil
}

// parseWithID accepts the item id before or after the flags.
func (r *Runner) parseWithID(fs *flag.FlagSet, args []string) (string, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := r.parse(fs, args); err != nil {
		return "", err
	}
	if id == "" {
		id = fs.Arg(0)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		fs.Usage()
		return "", ErrUsage
	}
	return id, nil
}

// loadStore builds a store and fetches the current items.
func (r *Runner) loadStore(ctx context.Context) (*store.Store, error) {
	repo, err := r.newRepo(r.cfg, r.logger)
	if err != nil {
		return nil, err
	}
	s := store.New(repo, r.logger)
	s.FetchItems(ctx)
	if err := stateError(s); err != nil {
		return nil, err
	}
	return s, nil
}

func stateError(s *store.Store) error {
	if msg := s.State().Error; msg != "" {
		return errors.New(msg)
	}
	return nil
}

func (r *Runner) list(ctx context.Context, args []string) error {
	fs := r.flagSet("list")
	source := fs.String("source", "", "only items from this source")
	category := fs.String("category", "", "only items in this category")
	priority := fs.String("priority", "", "only items with this priority (High, Medium, Low)")
	if err := r.parse(fs, args); err != nil {
		return err
	}

	var p domain.Priority
	if strings.TrimSpace(*priority) != "" {
		parsed, err := domain.ParsePriority(*priority)
		if err != nil {
			return err
		}
		p = parsed
	}

	s, err := r.loadStore(ctx)
	if err != nil {
		return err
	}
	s.SetSourceFilter(strings.TrimSpace(*source))
	s.SetCategoryFilter(strings.TrimSpace(*category))
	s.SetPriorityFilter(p)

	r.render.Items(s.FilteredItems(), s.TotalPrice(), s.State().Filters)
	return nil
}

// formFlags binds the item form to fs.
type formFlags struct {
	fs       *flag.FlagSet
	name     *string
	link     *string
	source   *string
	category *string
	priority *string
	price    *string
	image    *string
	bought   *bool
}

func bindForm(fs *flag.FlagSet, defaultPriority string) formFlags {
	return formFlags{
		fs:       fs,
		name:     fs.String("name", "", "item name"),
		link:     fs.String("link", "", "product URL"),
		source:   fs.String("source", "", "shop or marketplace"),
		category: fs.String("category", "", "category"),
		priority: fs.String("priority", defaultPriority, "High, Medium or Low"),
		price:    fs.String("price", "", "price, thousands separators allowed"),
		image:    fs.String("image", "", "image URL"),
		bought:   fs.Bool("bought", false, "already bought"),
	}
}

// apply copies the flags that were set on the command line into form.
// It reports how many were set.
func (f formFlags) apply(form *domain.Form) (int, error) {
	var (
		n   int
		err error
	)
	f.fs.Visit(func(fl *flag.Flag) {
		n++
		switch fl.Name {
		case "name":
			form.Name = *f.name
		case "link":
			form.Link = *f.link
		case "source":
			form.Source = *f.source
		case "category":
			form.Category = *f.category
		case "price":
			form.Price = *f.price
		case "image":
			form.ImageURL = *f.image
		case "bought":
			form.Bought = *f.bought
		case "priority":
			p, perr := domain.ParsePriority(*f.priority)
			if perr != nil {
				err = perr
				return
			}
			form.Priority = p
		}
	})
	return n, err
}

// validateForm prints field errors and returns a summary error.
func (r *Runner) validateForm(form domain.Form) error {
	err := form.Validate()
	if err == nil {
		return nil
	}
	var valErr *validator.ValidationError
	if !errors.As(err, &valErr) {
		return err
	}
	fields := valErr.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.errOut, "  %s: %s\n", name, fields[name])
	}
	return errors.New("invalid item")
}

func (r *Runner) add(ctx context.Context, args []string) error {
	fs := r.flagSet("add")
	ff := bindForm(fs, string(domain.PriorityMedium))
	if err := r.parse(fs, args); err != nil {
		return err
	}

	form := domain.NewForm()
	if _, err := ff.apply(&form); err != nil {
		return err
	}
	if err := r.validateForm(form); err != nil {
		return err
	}

	s, err := r.loadStore(ctx)
	if err != nil {
		return err
	}
	s.AddItem(ctx, form.Draft())
	if err := stateError(s); err != nil {
		return err
	}

	st := s.State()
	r.render.Message("Added:")
	r.render.Item(st.Items[0])
	return nil
}

func (r *Runner) edit(ctx context.Context, args []string) error {
	fs := r.flagSet("edit")
	ff := bindForm(fs, "")
	id, err := r.parseWithID(fs, args)
	if err != nil {
		return err
	}

	s, err := r.loadStore(ctx)
	if err != nil {
		return err
	}
	item, ok := s.Item(id)
	if !ok {
		return fmt.Errorf("item %s not found", id)
	}

	form := domain.FormFromItem(item)
	n, err := ff.apply(&form)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("nothing to change: pass at least one field flag")
	}
	if err := r.validateForm(form); err != nil {
		return err
	}

	s.UpdateItem(ctx, id, form.Patch())
	if err := stateError(s); err != nil {
		return err
	}

	updated, _ := s.Item(id)
	r.render.Message("Updated:")
	r.render.Item(updated)
	return nil
}

func (r *Runner) remove(ctx context.Context, args []string) error {
	fs := r.flagSet("rm")
	id, err := r.parseWithID(fs, args)
	if err != nil {
		return err
	}

	s, err := r.loadStore(ctx)
	if err != nil {
		return err
	}
	s.DeleteItem(ctx, id)
	if err := stateError(s); err != nil {
		return err
	}

	r.render.Message("Deleted %s", id)
	return nil
}

func (r *Runner) toggle(ctx context.Context, args []string) error {
	fs := r.flagSet("toggle")
	id, err := r.parseWithID(fs, args)
	if err != nil {
		return err
	}

	s, err := r.loadStore(ctx)
	if err != nil {
		return err
	}
	if _, ok := s.Item(id); !ok {
		return fmt.Errorf("item %s not found", id)
	}

	s.ToggleBought(ctx, id)
	if err := stateError(s); err != nil {
		return err
	}

	item, _ := s.Item(id)
	r.render.Item(item)
	return nil
}

func (r *Runner) sources(ctx context.Context, args []string) error {
	if err := r.parse(r.flagSet("sources"), args); err != nil {
		return err
	}
	s, err := r.loadStore(ctx)
	if err != nil {
		return err
	}
	r.render.Lines(s.UniqueSources())
	return nil
}

func (r *Runner) categories(ctx context.Context, args []string) error {
	if err := r.parse(r.flagSet("categories"), args); err != nil {
		return err
	}
	s, err := r.loadStore(ctx)
	if err != nil {
		return err
	}
	r.render.Lines(s.UniqueCategories())
	return nil
}

func (r *Runner) token(_ context.Context, args []string) error {
	fs := r.flagSet("token")
	owner := fs.String("owner", r.cfg.Owner, "owner the token is issued to")
	expiry := fs.Duration("expiry", 0, "token lifetime, 0 for no expiry")
	if err := r.parse(fs, args); err != nil {
		return err
	}

	if r.cfg.JWTSecret == "" {
		return errors.New("jwt_secret is not configured")
	}
	if strings.TrimSpace(*owner) == "" {
		return errors.New("owner is required")
	}
	if *expiry < 0 {
		return fmt.Errorf("expiry must not be negative, got %s", *expiry)
	}

	token, err := auth.NewJWTManager(r.cfg.JWTSecret, *expiry).GenerateToken(strings.TrimSpace(*owner))
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	fmt.Fprintln(r.out, token)
	return nil
}
