package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"bookreviewhub/pkg/client"
)

var _ list.Item = bookItem{}

// bookItem wraps [client.Book] to implement [list.Item].
type bookItem struct {
	book client.Book
}

func (i bookItem) FilterValue() string { return i.book.Title }
func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string {
	desc := fmt.Sprintf("%s • ★%.1f", i.book.Author, i.book.Rating)
	if i.book.GenreName != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.book.GenreName)
	}
	return desc
}
