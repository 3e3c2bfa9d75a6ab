// Package shell provides an interactive SQL prompt over the aggregate table.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"golang.org/x/term"

	"github.com/xelora/retailstream/internal/query"
	"github.com/xelora/retailstream/internal/report"
	"github.com/xelora/retailstream/internal/types"
)

// ViewName is the name the aggregate table is exposed under.
const ViewName = "sales_daily"

var keywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP BY", "HAVING",
	"ORDER BY", "LIMIT", "SUM", "AVG", "COUNT", "MIN", "MAX",
	"ASC", "DESC", "AND", "OR", "NOT", "DISTINCT",
}

// Shell is an interactive read-eval-print loop over a query service.
type Shell struct {
	svc *query.Service
	out io.Writer
}

// New creates a shell over the given query service.
func New(svc *query.Service) *Shell {
	return &Shell{svc: svc, out: os.Stdout}
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Run registers the table view and loops on user input until exit or EOF.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.svc.RegisterView(ctx, ViewName); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "table %q is ready; type SQL, or exit to quit\n", ViewName)

	for {
		line := strings.TrimSpace(prompt.Input("sql> ", completer))
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit", "\\q":
			return nil
		}

		rs, err := s.svc.ExecuteSQL(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		report.Render(s.out, rs)
	}
}

func completer(d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursor()
	if word == "" {
		return nil
	}

	suggestions := make([]prompt.Suggest, 0, len(keywords)+len(types.Columns())+1)
	for _, kw := range keywords {
		suggestions = append(suggestions, prompt.Suggest{Text: kw})
	}
	for _, col := range types.Columns() {
		suggestions = append(suggestions, prompt.Suggest{Text: col, Description: "column"})
	}
	suggestions = append(suggestions, prompt.Suggest{Text: ViewName, Description: "table"})

	return prompt.FilterHasPrefix(suggestions, word, true)
}
