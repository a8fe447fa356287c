package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	import_parser "github.com/pstuifzand/tuo-notes/internal/import"
	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
	"github.com/pstuifzand/tuo-notes/internal/search"
	"github.com/pstuifzand/tuo-notes/internal/socket"
)

func addAdd(topLevel *cobra.Command, ro *RootOptions) {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "add <text>|-",
		Short: "Add a node to the running editor, or to the last outline",
		Long: `Add a node to the running editor, or to the last outline.

Text starting with a dash must follow "--" so it is not read as a flag.
With "-" as the only argument the text is read from standard input.`,
		Example: `
tuo add buy milk
tuo add --markdown -- "- trip
  - book hotel"
cat trip.md | tuo add --markdown -
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			if text == "" {
				return errors.New("node text cannot be empty")
			}
			format := socket.FormatPlain
			if markdown {
				format = socket.FormatMarkdown
			}

			resp, err := sendToInstance(func(c *socket.Client) (*socket.Response, error) {
				return c.SendAddNode(text, format)
			})
			switch {
			case err == nil:
				if !resp.Success {
					return errors.New(resp.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			case !errors.Is(err, socket.ErrNoInstance):
				return err
			}
			return appendToActive(cmd.Context(), ro, text, format, cmd)
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "parse the text as a markdown outline")
	topLevel.AddCommand(cmd)
}

// readText joins the arguments, or reads standard input for a single "-"
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read text from stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(strings.Join(args, " ")), nil
}

func addSearch(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the running editor, or the last outline",
		Example: `
tuo search milk
tuo search "d:1 -is:leaf"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			resp, err := sendToInstance(func(c *socket.Client) (*socket.Response, error) {
				return c.SendSearch(query)
			})
			if err == nil {
				if !resp.Success {
					return errors.New(resp.Message)
				}
				for _, r := range resp.Results {
					fmt.Fprintln(cmd.OutOrStdout(), r)
				}
				return nil
			}
			if !errors.Is(err, socket.ErrNoInstance) {
				return err
			}

			e, err := ro.open()
			if err != nil {
				return err
			}
			defer e.Close()

			doc, err := loadActive(cmd.Context(), e)
			if err != nil {
				return err
			}
			results, err := search.Query(doc.Tree, query)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", strings.Repeat("  ", r.Depth-1), r.Node.Text())
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

// sendToInstance runs send against the newest running editor
func sendToInstance(send func(*socket.Client) (*socket.Response, error)) (*socket.Response, error) {
	path, _, err := socket.FindRunningInstance(socket.Dir())
	if err != nil {
		return nil, err
	}
	client, err := socket.NewClient(path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return send(client)
}

// appendToActive adds the text to the end of the last opened outline and
// saves it
func appendToActive(ctx context.Context, ro *RootOptions, text, format string, cmd *cobra.Command) error {
	e, err := ro.open()
	if err != nil {
		return err
	}
	defer e.Close()

	id, _ := e.files.Active(ctx)
	doc, ok := e.files.Load(ctx, id)
	if !ok {
		doc = &model.Document{}
	}

	var nodes []*model.Node
	if format == socket.FormatMarkdown {
		if nodes, err = import_parser.ImportFile(text, import_parser.FormatMarkdown); err != nil {
			return err
		}
	} else {
		nodes = []*model.Node{model.NewNode(model.NewID(), richtext.NewParagraph(text))}
	}
	if len(nodes) == 0 {
		return errors.New("nothing to add")
	}
	doc.Tree = append(doc.Tree, nodes...)

	meta, err := e.files.Save(ctx, id, doc)
	if err != nil {
		return err
	}
	if err := e.files.SetActive(ctx, meta.ID); err != nil {
		e.logger.Warn("set active outline", zap.Error(err))
	}
	e.logger.Info("nodes appended", zap.String("id", meta.ID), zap.Int("count", len(nodes)))
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d nodes to %s\n", len(nodes), meta.DisplayName())
	return nil
}

// loadActive loads the last opened outline
func loadActive(ctx context.Context, e *env) (*model.Document, error) {
	id, ok := e.files.Active(ctx)
	if !ok {
		return nil, errors.New("no outline has been opened yet")
	}
	doc, ok := e.files.Load(ctx, id)
	if !ok {
		return nil, fmt.Errorf("outline %s not found", id)
	}
	return doc, nil
}
