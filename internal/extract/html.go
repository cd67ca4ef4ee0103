package extract

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Table is an HTML table reduced to cell text.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the named header column, or -1.
func (t Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

var footnoteRE = regexp.MustCompile(`\[[^\]]*\]`)

// ParseTables returns every <table> of an HTML document in document order.
// Nested tables are returned as tables of their own and do not contribute
// rows to the enclosing table.
func ParseTables(r io.Reader) ([]Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var tables []Table
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			tables = append(tables, readTable(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return tables, nil
}

func readTable(table *html.Node) Table {
	var rows [][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				// nested table, handled by ParseTables
			case atom.Tr:
				if cells := readRow(c); len(cells) > 0 {
					rows = append(rows, cells)
				}
			default:
				walk(c)
			}
		}
	}
	walk(table)

	if len(rows) == 0 {
		return Table{}
	}
	// The first row names the columns whether it is made of <th> or <td>.
	return Table{Header: rows[0], Rows: rows[1:]}
}

// readRow returns the text of each <th> and <td> cell of a row.
func readRow(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Th || c.DataAtom == atom.Td) {
			cells = append(cells, cellText(c))
		}
	}
	return cells
}

func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Style, atom.Script:
				return
			case atom.Br:
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return normalize(b.String())
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = footnoteRE.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
