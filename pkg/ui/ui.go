// Package ui implements the interactive catalog browser.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"bookreviewhub/pkg/client"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	filterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model represents the catalog browser state.
type Model struct {
	ctx       context.Context
	api       *client.Client
	width     int
	height    int
	books     list.Model
	genres    []client.Genre
	filterIdx int // -1 means all genres
	banner    string
	help      help.Model
	keys      keyMap
}

type genresFetchedMsg struct {
	genres []client.Genre
	err    error
}

type booksFetchedMsg struct {
	books []client.Book
	err   error
}

type bookDeletedMsg struct {
	err error
}

// NewModel creates a browser backed by the given catalog client.
func NewModel(ctx context.Context, api *client.Client) *Model {
	books := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	books.Title = "Books"
	books.SetShowHelp(false)

	return &Model{
		ctx:       ctx,
		api:       api,
		books:     books,
		filterIdx: -1,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init fetches genres and the unfiltered book listing.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchGenres(), m.fetchBooks())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.books.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		// any keypress dismisses the banner
		m.banner = ""
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			return m, m.fetchBooks()
		case key.Matches(msg, m.keys.cycleGenre):
			m.filterIdx++
			if m.filterIdx >= len(m.genres) {
				m.filterIdx = -1
			}
			return m, m.fetchBooks()
		case key.Matches(msg, m.keys.del):
			if item, ok := m.books.SelectedItem().(bookItem); ok {
				return m, m.deleteBook(item.book.BookID)
			}
			return m, nil
		}

	case genresFetchedMsg:
		if msg.err != nil {
			m.banner = msg.err.Error()
			return m, nil
		}
		m.genres = msg.genres
		return m, nil

	case booksFetchedMsg:
		if msg.err != nil {
			m.banner = msg.err.Error()
			return m, nil
		}
		items := lo.Map(msg.books, func(b client.Book, _ int) list.Item {
			return bookItem{book: b}
		})
		return m, m.books.SetItems(items)

	case bookDeletedMsg:
		if msg.err != nil {
			m.banner = msg.err.Error()
			return m, nil
		}
		return m, m.fetchBooks()
	}

	var cmd tea.Cmd
	m.books, cmd = m.books.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m *Model) View() string {
	filter := "all genres"
	if m.filterIdx >= 0 && m.filterIdx < len(m.genres) {
		filter = m.genres[m.filterIdx].Name
	}

	sections := []string{
		titleStyle.Render("Book Review Hub"),
		filterStyle.Render(fmt.Sprintf("genre: %s", filter)),
		m.books.View(),
	}
	if m.banner != "" {
		sections = append(sections, errorStyle.Render("⚠ "+m.banner))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) fetchGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := m.api.ListGenres(m.ctx)
		return genresFetchedMsg{genres: genres, err: err}
	}
}

func (m *Model) fetchBooks() tea.Cmd {
	filter := client.ListFilter{}
	if m.filterIdx >= 0 && m.filterIdx < len(m.genres) {
		filter.Genre = m.genres[m.filterIdx].ID
	}
	return func() tea.Msg {
		books, err := m.api.ListBooks(m.ctx, filter)
		return booksFetchedMsg{books: books, err: err}
	}
}

func (m *Model) deleteBook(id string) tea.Cmd {
	return func() tea.Msg {
		return bookDeletedMsg{err: m.api.DeleteBook(m.ctx, id)}
	}
}
