package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Sternrassler/catalog-pager/pkg/pagination"
	"github.com/Sternrassler/catalog-pager/pkg/render"
	"github.com/Sternrassler/catalog-pager/pkg/view"
	"github.com/spf13/cobra"
)

const browseHelp = `Commands:
  n            next page
  p            previous page
  g <page>     go to page
  s <size>     page size (5, 10, 20, 30)
  r            reload the current page
  h            help
  q            quit`

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog page by page in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := a.newView()
			if err != nil {
				return err
			}
			return browse(cmd.Context(), v, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// browse loads the first page, then reads one command per line until q or EOF.
// Fetch failures are shown in the rendered listing and do not end the session.
func browse(ctx context.Context, v *view.ListView, in io.Reader, out io.Writer) error {
	if err := show(out, v, v.Load(ctx)); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var actionErr error
		switch cmd, arg := fields[0], argument(fields); cmd {
		case "q", "quit", "exit":
			return nil
		case "h", "help", "?":
			fmt.Fprintln(out, browseHelp)
			continue
		case "n", "next":
			actionErr = v.Next(ctx)
		case "p", "prev":
			actionErr = v.Previous(ctx)
		case "r", "refresh":
			actionErr = v.Load(ctx)
		case "g", "go":
			var page int
			if page, actionErr = pagination.ParsePageNumber(arg); actionErr == nil {
				actionErr = v.GoToPage(ctx, page)
			}
		case "s", "size":
			var size int
			if size, actionErr = pagination.ParsePageSize(arg); actionErr == nil {
				actionErr = v.SetPageSize(ctx, size)
			}
		default:
			fmt.Fprintf(out, "Unknown command %q, h for help\n", cmd)
			continue
		}

		if err := show(out, v, actionErr); err != nil {
			return err
		}
	}
}

// show renders the view. Validation errors are printed without redrawing.
func show(out io.Writer, v *view.ListView, actionErr error) error {
	if actionErr != nil && !errors.Is(actionErr, view.ErrFetchFailed) {
		_, err := fmt.Fprintf(out, "Error: %v\n", actionErr)
		return err
	}
	return render.Snapshot(out, v.Snapshot())
}

func argument(fields []string) string {
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
