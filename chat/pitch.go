package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	toolsx "deckpilot/pipeline/tools"
	openrouterx "deckpilot/pkg/openrouter"
)

// PitchSlide is the model-authored closing slide.
type PitchSlide struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SlideAuthor produces one closing slide from a record's JSON.
type SlideAuthor interface {
	Write(ctx context.Context, recordJSON string) (PitchSlide, error)
}

// PitchWriter turns a record's JSON into one closing slide via a structured
// output graph: prompt, model, JSON parse.
type PitchWriter struct {
	runner compose.Runnable[map[string]any, PitchSlide]
}

var _ SlideAuthor = (*PitchWriter)(nil)

func NewPitchWriter(ctx context.Context, builder openrouterx.LLMBuilder, systemPrompt string) (*PitchWriter, error) {
	chatModel, err := builder.New(ctx)
	if err != nil {
		return nil, err
	}

	runner, err := compilePitchGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, err
	}
	return &PitchWriter{runner: runner}, nil
}

func (w *PitchWriter) Write(ctx context.Context, recordJSON string) (PitchSlide, error) {
	out, err := w.runner.Invoke(ctx, map[string]any{"input": recordJSON})
	if err != nil {
		return PitchSlide{}, fmt.Errorf("pitch writer invoke: %w", err)
	}
	if strings.TrimSpace(out.Title) == "" || strings.TrimSpace(out.Body) == "" {
		return PitchSlide{}, fmt.Errorf("pitch writer returned an empty slide")
	}
	return out, nil
}

func compilePitchGraph(
	ctx context.Context,
	chatModel model.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[map[string]any, PitchSlide], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	parser := schema.NewMessageJSONParser[PitchSlide](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, PitchSlide]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add pitch prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add pitch model node: %w", err)
	}
	if err := graph.AddLambdaNode("parse_json", compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("add pitch parser node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add pitch edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add pitch edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "parse_json"); err != nil {
		return nil, fmt.Errorf("add pitch edge model->parse: %w", err)
	}
	if err := graph.AddEdge("parse_json", compose.END); err != nil {
		return nil, fmt.Errorf("add pitch edge parse->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("pitch.writer_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile pitch graph: %w", err)
	}
	return runner, nil
}

// The label is shared with the server's create-presentation handler so a
// reworded reply cannot silently break the scrape.
var presentationIDPattern = regexp.MustCompile(regexp.QuoteMeta(toolsx.PresentationIDLabel) + `\s*(\S+)`)

// RunPitch is the non-interactive path: stage the table, pull one record,
// build its deck, and close with a model-authored slide. Each step's reply is
// echoed so the operator sees the same prose the model would.
func RunPitch(ctx context.Context, callers []Caller, author SlideAuthor, companyName string, out io.Writer) error {
	route := make(map[string]Caller)
	for _, caller := range callers {
		for _, tool := range caller.Tools() {
			if _, dup := route[tool.Name]; !dup {
				route[tool.Name] = caller
			}
		}
	}

	call := func(tool string, args map[string]any) (string, error) {
		caller, ok := route[tool]
		if !ok {
			return "", fmt.Errorf("no connected server provides tool %q", tool)
		}
		text, err := caller.Call(ctx, tool, args)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(out, "[%s] %s\n", tool, text)
		return text, nil
	}

	if _, err := call("fetch-data", map[string]any{}); err != nil {
		return err
	}

	extracted, err := call("extract-company-data", map[string]any{"companyName": companyName})
	if err != nil {
		return err
	}
	recordArgs := map[string]any{}
	if err := json.Unmarshal([]byte(extracted), &recordArgs); err != nil {
		return fmt.Errorf("extract-company-data did not return a record: %s", extracted)
	}

	created, err := call("create-presentation", map[string]any{"data": recordArgs})
	if err != nil {
		return err
	}
	match := presentationIDPattern.FindStringSubmatch(created)
	if match == nil {
		return fmt.Errorf("create-presentation did not return an identifier: %s", created)
	}
	presentationID := match[1]

	slide, err := author.Write(ctx, extracted)
	if err != nil {
		return err
	}

	_, err = call("add-custom-slide", map[string]any{
		"slideTitle":     slide.Title,
		"slideContent":   slide.Body,
		"presentationId": presentationID,
	})
	return err
}
