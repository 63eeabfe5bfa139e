package arxiv

import (
	"context"

	"github.com/fwojciec/curate"
	"github.com/fwojciec/curate/toolbox"
)

// MostRecentTool returns the spec and handler for fetching the most
// recent papers matching a query.
func MostRecentTool(c *Client) (curate.ToolSpec, toolbox.Func) {
	spec := curate.ToolSpec{
		Name:        "arxiv_fetch_most_recent",
		Description: "Fetch the most recent k papers from arXiv matching the query.",
		Params: []curate.Param{
			{Name: "query", Type: curate.ParamString},
			{Name: "k", Type: curate.ParamInteger, Default: DefaultK},
		},
	}
	fn := func(ctx context.Context, args map[string]any) ([]string, error) {
		return c.search(ctx, toolbox.StringArg(args, "query"), toolbox.IntArg(args, "k"), sortSubmittedDate)
	}
	return spec, fn
}

// MostRelevantTool returns the spec and handler for fetching the most
// relevant papers matching a query.
func MostRelevantTool(c *Client) (curate.ToolSpec, toolbox.Func) {
	spec := curate.ToolSpec{
		Name:        "arxiv_fetch_most_relevant",
		Description: "Fetch the most relevant k papers from arXiv matching the query.",
		Params: []curate.Param{
			{Name: "query", Type: curate.ParamString},
			{Name: "k", Type: curate.ParamInteger, Default: DefaultK},
		},
	}
	fn := func(ctx context.Context, args map[string]any) ([]string, error) {
		return c.search(ctx, toolbox.StringArg(args, "query"), toolbox.IntArg(args, "k"), sortRelevance)
	}
	return spec, fn
}
