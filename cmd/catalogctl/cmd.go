// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// booksCommand handles book catalog operations
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"b"},
		Usage:   "Book catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List books, optionally filtered by genre and rating range",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Genre identifier to filter by",
					},
					&cli.FloatFlag{
						Name:  "min-rating",
						Usage: "Lower inclusive rating bound",
					},
					&cli.FloatFlag{
						Name:  "max-rating",
						Usage: "Upper inclusive rating bound",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.BooksList,
			},
			{
				Name:  "add",
				Usage: "Add a book to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Book title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "author",
						Usage:    "Book author",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "genre",
						Aliases:  []string{"g"},
						Usage:    "Genre identifier",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "rating",
						Usage:    "Rating between 0 and 5",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "atomic",
						Usage: "Use the transactional add path",
					},
				},
				Action: r.BooksAdd,
			},
			{
				Name:  "update",
				Usage: "Replace all fields of an existing book",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Book identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Book title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "author",
						Usage:    "Book author",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "genre",
						Aliases:  []string{"g"},
						Usage:    "Genre identifier",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "rating",
						Usage:    "Rating between 0 and 5",
						Required: true,
					},
				},
				Action: r.BooksUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a book by identifier",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.BooksDelete,
			},
		},
	}
}

// genresCommand handles genre operations
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "genres",
		Aliases: []string{"g"},
		Usage:   "Genre operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List genres sorted by name",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.GenresList,
			},
			{
				Name:  "add",
				Usage: "Add a genre",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Genre name",
						Required: true,
					},
				},
				Action: r.GenresAdd,
			},
		},
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui"},
		Usage:   "Browse the catalog in an interactive terminal UI",
		Action:  r.TUI,
	}
}
