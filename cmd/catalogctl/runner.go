package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"bookreviewhub/pkg/client"
)

var errRatingOutOfBounds = errors.New("rating must be between 0 and 5")

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config *Config
	api    *client.Client
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *Config
	API    *client.Client
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.API == nil {
		opts.API = client.New(opts.Config.Server.URL, nil)
	}

	return &Runner{
		config: opts.Config,
		api:    opts.API,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		booksCommand, genresCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// BooksList prints the book listing, optionally filtered by genre and
// rating range.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command) error {
	filter := client.ListFilter{Genre: cmd.String("genre")}
	if cmd.IsSet("min-rating") {
		minRating := cmd.Float("min-rating")
		filter.MinRating = &minRating
	}
	if cmd.IsSet("max-rating") {
		maxRating := cmd.Float("max-rating")
		filter.MaxRating = &maxRating
	}

	books, err := r.api.ListBooks(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list books: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, cmd.Bool("pretty"))
	}

	w := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tAUTHOR\tGENRE\tRATING\tID")
	rows := lo.Map(books, func(b client.Book, _ int) string {
		return fmt.Sprintf("%s\t%s\t%s\t%.1f\t%s", b.Title, b.Author, b.GenreName, b.Rating, b.BookID)
	})
	for _, row := range rows {
		fmt.Fprintln(w, row)
	}
	return w.Flush()
}

// BooksAdd creates a book, through the transactional path when --atomic is
// set. The rating bounds are checked here before submission, mirroring the
// service contract.
func (r *Runner) BooksAdd(ctx context.Context, cmd *cli.Command) error {
	book, err := r.bookFromFlags(ctx, cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("atomic") {
		if err := r.api.AddBookAtomic(ctx, book); err != nil {
			return fmt.Errorf("failed to add book: %w", err)
		}
		r.logger.Info("book added atomically", "title", book.Title)
		return nil
	}

	id, err := r.api.AddBook(ctx, book)
	if err != nil {
		return fmt.Errorf("failed to add book: %w", err)
	}
	r.logger.Info("book added", "title", book.Title, "id", id)
	fmt.Fprintln(r.output, id)
	return nil
}

// BooksUpdate replaces all mutable fields of a book.
func (r *Runner) BooksUpdate(ctx context.Context, cmd *cli.Command) error {
	book, err := r.bookFromFlags(ctx, cmd)
	if err != nil {
		return err
	}

	id := cmd.String("id")
	if err := r.api.UpdateBook(ctx, id, book); err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	r.logger.Info("book updated", "id", id)
	return nil
}

// BooksDelete removes a book by identifier.
func (r *Runner) BooksDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return errors.New("book id is required")
	}
	if err := r.api.DeleteBook(ctx, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	r.logger.Info("book deleted", "id", id)
	return nil
}

// GenresList prints all genres sorted by name.
func (r *Runner) GenresList(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.api.ListGenres(ctx)
	if err != nil {
		return fmt.Errorf("failed to list genres: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}

	w := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID")
	for _, g := range genres {
		fmt.Fprintf(w, "%s\t%s\n", g.Name, g.ID)
	}
	return w.Flush()
}

// GenresAdd creates a genre.
func (r *Runner) GenresAdd(ctx context.Context, cmd *cli.Command) error {
	genre, err := r.api.AddGenre(ctx, cmd.String("name"))
	if err != nil {
		return fmt.Errorf("failed to add genre: %w", err)
	}
	r.logger.Info("genre added", "name", genre.Name, "id", genre.ID)
	fmt.Fprintln(r.output, genre.ID)
	return nil
}

func (r *Runner) bookFromFlags(ctx context.Context, cmd *cli.Command) (client.NewBook, error) {
	rating := cmd.Float("rating")
	if rating < 0 || rating > 5 {
		return client.NewBook{}, errRatingOutOfBounds
	}
	genreID, err := r.resolveGenre(ctx, cmd.String("genre"))
	if err != nil {
		return client.NewBook{}, err
	}
	return client.NewBook{
		Title:   cmd.String("title"),
		Author:  cmd.String("author"),
		GenreID: genreID,
		Rating:  rating,
	}, nil
}

// resolveGenre accepts either a genre identifier or a genre name and
// returns the identifier.
func (r *Runner) resolveGenre(ctx context.Context, ref string) (string, error) {
	genres, err := r.api.ListGenres(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve genre: %w", err)
	}
	if _, ok := client.GenresByID(genres)[ref]; ok {
		return ref, nil
	}
	if genre, ok := lo.Find(genres, func(g client.Genre) bool {
		return strings.EqualFold(g.Name, ref)
	}); ok {
		return genre.ID, nil
	}
	return "", fmt.Errorf("unknown genre %q", ref)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// SetLogger replaces the runner's logger, used to redirect logs to a file
// while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// SetServerURL repoints the API client at a different service URL.
func (r *Runner) SetServerURL(url string) {
	r.config.Server.URL = url
	r.api = client.New(url, nil)
}

func newFileLogger(path string) (*log.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return log.NewWithOptions(f, log.Options{ReportTimestamp: true, ReportCaller: true}), nil
}
