// Package chat is the tool client: it relays a conversational loop between a
// human and a chat model, executing the tool calls the model decides on
// against the connected tool servers.
package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	openrouterx "deckpilot/pkg/openrouter"
)

// Loop owns the ever-growing transcript. Turns are strictly sequential: the
// loop suspends on user input and on each model or tool round trip.
type Loop struct {
	model      model.ToolCallingChatModel
	route      map[string]Caller
	transcript []*schema.Message

	in  io.Reader
	out io.Writer
}

func NewLoop(ctx context.Context, builder openrouterx.LLMBuilder, callers []Caller, systemPrompt string, in io.Reader, out io.Writer) (*Loop, error) {
	route := make(map[string]Caller)
	var infos []*schema.ToolInfo
	for _, caller := range callers {
		for _, tool := range caller.Tools() {
			if _, dup := route[tool.Name]; dup {
				log.Warn().Str("tool", tool.Name).Str("server", caller.Name()).Msg("duplicate tool name; first server wins")
				continue
			}
			route[tool.Name] = caller
			infos = append(infos, toolInfoFromMCP(tool))
		}
	}

	chatModel, err := builder.New(ctx)
	if err != nil {
		return nil, err
	}
	if len(infos) > 0 {
		chatModel, err = chatModel.WithTools(infos)
		if err != nil {
			return nil, fmt.Errorf("bind tools: %w", err)
		}
	}

	return &Loop{
		model:      chatModel,
		route:      route,
		transcript: []*schema.Message{schema.SystemMessage(systemPrompt)},
		in:         in,
		out:        out,
	}, nil
}

// Run reads user turns until EOF or an exit word.
func (l *Loop) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(l.in)
	for {
		fmt.Fprint(l.out, "you> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}

		reply, err := l.Turn(ctx, text)
		if err != nil {
			return err
		}
		fmt.Fprintf(l.out, "deckpilot> %s\n", reply)
	}
}

// Turn appends one user message and drives model turns until the model
// answers without tool calls. Every tool result lands in the transcript as
// text before the next model turn.
func (l *Loop) Turn(ctx context.Context, userText string) (string, error) {
	l.transcript = append(l.transcript, schema.UserMessage(userText))

	for {
		msg, err := l.model.Generate(ctx, l.transcript)
		if err != nil {
			return "", fmt.Errorf("model turn: %w", err)
		}
		l.transcript = append(l.transcript, msg)

		if len(msg.ToolCalls) == 0 {
			return strings.TrimSpace(msg.Content), nil
		}

		for _, call := range msg.ToolCalls {
			result := l.dispatch(ctx, call)
			l.transcript = append(l.transcript, schema.ToolMessage(result, call.ID))
		}
	}
}

// dispatch executes one tool call. Failures become result text, keeping the
// transcript uniform across calls.
func (l *Loop) dispatch(ctx context.Context, call schema.ToolCall) string {
	name := strings.TrimSpace(call.Function.Name)
	caller, ok := l.route[name]
	if !ok {
		return fmt.Sprintf("Tool %q is not provided by any connected server.", name)
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return fmt.Sprintf("Tool %q was called with arguments that are not valid JSON: %v", name, err)
		}
	}

	log.Debug().Str("tool", name).Str("server", caller.Name()).Msg("dispatching tool call")
	result, err := caller.Call(ctx, name, args)
	if err != nil {
		return fmt.Sprintf("Tool %q failed: %v", name, err)
	}
	return result
}
