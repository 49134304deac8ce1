package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	toolsx "deckpilot/pipeline/tools"
)

type routingCaller struct {
	name    string
	tools   []mcp.Tool
	results map[string]string
	errs    map[string]error
	calls   []string
}

func (f *routingCaller) Name() string      { return f.name }
func (f *routingCaller) Tools() []mcp.Tool { return f.tools }

func (f *routingCaller) Call(ctx context.Context, tool string, args map[string]any) (string, error) {
	f.calls = append(f.calls, tool)
	if err := f.errs[tool]; err != nil {
		return "", err
	}
	return f.results[tool], nil
}

type fakeAuthor struct {
	slide PitchSlide
	err   error
	seen  string
}

func (f *fakeAuthor) Write(ctx context.Context, recordJSON string) (PitchSlide, error) {
	f.seen = recordJSON
	if f.err != nil {
		return PitchSlide{}, f.err
	}
	return f.slide, nil
}

func pitchTools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("fetch-data"),
		mcp.NewTool("extract-company-data"),
		mcp.NewTool("create-presentation"),
		mcp.NewTool("add-custom-slide"),
	}
}

func TestRunPitchDrivesAllFourTools(t *testing.T) {
	t.Parallel()

	caller := &routingCaller{
		name:  "deckpilot-server",
		tools: pitchTools(),
		results: map[string]string{
			"fetch-data":           "Fetched 2 company records into the staging cache.",
			"extract-company-data": `{"companyName":"Acme","industry":"Robotics"}`,
			"create-presentation":  "Created a presentation for Acme. presentationId: pres-77",
			"add-custom-slide":     `Added slide "Why Acme" to pres-77.`,
		},
	}
	author := &fakeAuthor{slide: PitchSlide{Title: "Why Acme", Body: "Robotics is the moat."}}
	out := &strings.Builder{}

	if err := RunPitch(context.Background(), []Caller{caller}, author, "Acme", out); err != nil {
		t.Fatalf("RunPitch() error = %v", err)
	}

	want := []string{"fetch-data", "extract-company-data", "create-presentation", "add-custom-slide"}
	if len(caller.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", caller.calls, want)
	}
	for i, tool := range want {
		if caller.calls[i] != tool {
			t.Fatalf("call %d = %q, want %q", i, caller.calls[i], tool)
		}
	}
	if !strings.Contains(author.seen, `"companyName":"Acme"`) {
		t.Fatalf("author saw %q, want the extracted record", author.seen)
	}
	if !strings.Contains(out.String(), "pres-77") {
		t.Fatalf("output = %q, want presentation id echoed", out.String())
	}
}

func TestPresentationIDPatternMatchesServerReply(t *testing.T) {
	t.Parallel()

	// Phrased the way the create-presentation handler phrases it, around the
	// shared label.
	reply := fmt.Sprintf("Created a presentation for Acme. %s pres-9", toolsx.PresentationIDLabel)

	match := presentationIDPattern.FindStringSubmatch(reply)
	if match == nil {
		t.Fatalf("pattern did not match server reply %q", reply)
	}
	if match[1] != "pres-9" {
		t.Fatalf("captured %q, want pres-9", match[1])
	}
}

func TestRunPitchStopsWhenExtractionIsNotARecord(t *testing.T) {
	t.Parallel()

	caller := &routingCaller{
		name:  "deckpilot-server",
		tools: pitchTools(),
		results: map[string]string{
			"fetch-data":           "Fetched 2 company records into the staging cache.",
			"extract-company-data": `No company named "Initech" is in the staged data.`,
		},
	}
	author := &fakeAuthor{slide: PitchSlide{Title: "t", Body: "b"}}

	err := RunPitch(context.Background(), []Caller{caller}, author, "Initech", &strings.Builder{})
	if err == nil {
		t.Fatal("RunPitch() must fail when extraction returns prose, not a record")
	}
	if !strings.Contains(err.Error(), "did not return a record") {
		t.Fatalf("error = %v", err)
	}
	for _, tool := range caller.calls {
		if tool == "create-presentation" {
			t.Fatal("must not build a deck without a record")
		}
	}
}

func TestRunPitchStopsWithoutPresentationID(t *testing.T) {
	t.Parallel()

	caller := &routingCaller{
		name:  "deckpilot-server",
		tools: pitchTools(),
		results: map[string]string{
			"fetch-data":           "ok",
			"extract-company-data": `{"companyName":"Acme"}`,
			"create-presentation":  "Could not build the presentation: title slide layout unexpected.",
		},
	}
	author := &fakeAuthor{slide: PitchSlide{Title: "t", Body: "b"}}

	err := RunPitch(context.Background(), []Caller{caller}, author, "Acme", &strings.Builder{})
	if err == nil || !strings.Contains(err.Error(), "did not return an identifier") {
		t.Fatalf("error = %v, want missing identifier failure", err)
	}
}

func TestRunPitchMissingToolFailsFast(t *testing.T) {
	t.Parallel()

	caller := &routingCaller{
		name:  "deckpilot-server",
		tools: []mcp.Tool{mcp.NewTool("extract-company-data")},
	}

	err := RunPitch(context.Background(), []Caller{caller}, &fakeAuthor{}, "Acme", &strings.Builder{})
	if err == nil || !strings.Contains(err.Error(), "fetch-data") {
		t.Fatalf("error = %v, want missing fetch-data tool", err)
	}
	if len(caller.calls) != 0 {
		t.Fatalf("calls = %v, want none", caller.calls)
	}
}

func TestRunPitchAuthorFailureAborts(t *testing.T) {
	t.Parallel()

	caller := &routingCaller{
		name:  "deckpilot-server",
		tools: pitchTools(),
		results: map[string]string{
			"fetch-data":           "ok",
			"extract-company-data": `{"companyName":"Acme"}`,
			"create-presentation":  "Created a presentation for Acme. presentationId: pres-1",
		},
	}
	author := &fakeAuthor{err: errors.New("model unreachable")}

	err := RunPitch(context.Background(), []Caller{caller}, author, "Acme", &strings.Builder{})
	if err == nil || !strings.Contains(err.Error(), "model unreachable") {
		t.Fatalf("error = %v", err)
	}
	for _, tool := range caller.calls {
		if tool == "add-custom-slide" {
			t.Fatal("must not append a slide the author never wrote")
		}
	}
}
