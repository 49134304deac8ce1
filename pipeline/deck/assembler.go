// Package deck assembles Google Slides presentations from company records.
// Every deck has the same fixed shape: a title slide, two bulleted metric
// slides, and a free-text notes slide.
package deck

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/api/slides/v1"

	contractx "deckpilot/pipeline/contract"
	recordx "deckpilot/pipeline/record"
)

const (
	layoutTitleAndBody = "TITLE_AND_BODY"
	bulletPreset       = "BULLET_DISC_CIRCLE_SQUARE"
	titleFontSizePt    = 24
)

type Assembler struct {
	api API

	// newSlideID is swapped in tests for deterministic object ids.
	newSlideID func() string
}

var _ contractx.Deck = (*Assembler)(nil)

func NewAssembler(api API) *Assembler {
	return &Assembler{
		api: api,
		newSlideID: func() string {
			return "slide-" + uuid.NewString()
		},
	}
}

// BuildDeck runs the fixed assembly sequence and returns the presentation
// identifier. Each step depends on the previous one succeeding; a failure
// mid-sequence leaves a partial deck behind, with no rollback.
func (a *Assembler) BuildDeck(ctx context.Context, rec recordx.Record) (string, error) {
	presentation, err := a.api.CreatePresentation(ctx, rec.CompanyName)
	if err != nil {
		return "", err
	}
	presentationID := presentation.PresentationId

	titleID, subtitleID, err := titlePlaceholders(presentation)
	if err != nil {
		return "", err
	}

	// The batch API rejects empty insertion text, so blank fields are skipped
	// rather than inserted.
	reqs := make([]*slides.Request, 0, 2)
	if strings.TrimSpace(rec.CompanyName) != "" {
		reqs = append(reqs, insertText(titleID, rec.CompanyName))
	}
	if sub := subtitle(rec); sub != "" {
		reqs = append(reqs, insertText(subtitleID, sub))
	}
	if len(reqs) > 0 {
		if err := a.api.BatchUpdate(ctx, presentationID, reqs); err != nil {
			return "", err
		}
	}

	if err := a.appendSlide(ctx, presentationID, "Company Overview", overviewBody(rec), true); err != nil {
		return "", err
	}
	if err := a.appendSlide(ctx, presentationID, "Deal Profile", dealBody(rec), true); err != nil {
		return "", err
	}
	if err := a.appendSlide(ctx, presentationID, "Notes", rec.Notes, false); err != nil {
		return "", err
	}

	return presentationID, nil
}

// AppendCustomSlide adds one free-text slide to an already-created deck.
func (a *Assembler) AppendCustomSlide(ctx context.Context, presentationID, title, body string) error {
	return a.appendSlide(ctx, presentationID, title, body, false)
}

// appendSlide creates a two-placeholder slide, resolves the placeholder
// object ids positionally (first element = title, second = body), then fills
// and styles them in a single batch.
func (a *Assembler) appendSlide(ctx context.Context, presentationID, title, body string, bulleted bool) error {
	slideID := a.newSlideID()

	create := &slides.Request{
		CreateSlide: &slides.CreateSlideRequest{
			ObjectId: slideID,
			SlideLayoutReference: &slides.LayoutReference{
				PredefinedLayout: layoutTitleAndBody,
			},
		},
	}
	if err := a.api.BatchUpdate(ctx, presentationID, []*slides.Request{create}); err != nil {
		return err
	}

	page, err := a.api.GetPage(ctx, presentationID, slideID)
	if err != nil {
		return err
	}
	titleID, bodyID, err := pagePlaceholders(page, slideID)
	if err != nil {
		return err
	}

	reqs := []*slides.Request{
		insertText(titleID, title),
		{
			UpdateTextStyle: &slides.UpdateTextStyleRequest{
				ObjectId: titleID,
				Style: &slides.TextStyle{
					Bold:     true,
					FontSize: &slides.Dimension{Magnitude: titleFontSizePt, Unit: "PT"},
				},
				TextRange: &slides.Range{Type: "ALL"},
				Fields:    "bold,fontSize",
			},
		},
	}
	if strings.TrimSpace(body) != "" {
		reqs = append(reqs, insertText(bodyID, body))
		if bulleted {
			reqs = append(reqs, &slides.Request{
				CreateParagraphBullets: &slides.CreateParagraphBulletsRequest{
					ObjectId:     bodyID,
					TextRange:    &slides.Range{Type: "ALL"},
					BulletPreset: bulletPreset,
				},
			})
		}
	}

	return a.api.BatchUpdate(ctx, presentationID, reqs)
}

// titlePlaceholders resolves the auto-created title slide's placeholders.
// The layout must yield exactly a title and a subtitle; anything else is
// fatal, there is no fallback layout detection.
func titlePlaceholders(p *slides.Presentation) (titleID, subtitleID string, err error) {
	if p == nil || len(p.Slides) == 0 {
		return "", "", fmt.Errorf("%w: presentation has no title slide", contractx.ErrMalformedLayout)
	}
	elements := p.Slides[0].PageElements
	if len(elements) != 2 {
		return "", "", fmt.Errorf("%w: title slide has %d placeholders, want 2", contractx.ErrMalformedLayout, len(elements))
	}
	return elements[0].ObjectId, elements[1].ObjectId, nil
}

func pagePlaceholders(page *slides.Page, slideID string) (titleID, bodyID string, err error) {
	if page == nil {
		return "", "", fmt.Errorf("%w: slide %s not returned", contractx.ErrMalformedLayout, slideID)
	}
	if len(page.PageElements) != 2 {
		return "", "", fmt.Errorf("%w: slide %s has %d placeholders, want 2", contractx.ErrMalformedLayout, slideID, len(page.PageElements))
	}
	return page.PageElements[0].ObjectId, page.PageElements[1].ObjectId, nil
}

func insertText(objectID, text string) *slides.Request {
	return &slides.Request{
		InsertText: &slides.InsertTextRequest{
			ObjectId:       objectID,
			Text:           text,
			InsertionIndex: 0,
		},
	}
}

func subtitle(rec recordx.Record) string {
	parts := make([]string, 0, 2)
	if rec.Location != "" {
		parts = append(parts, rec.Location)
	}
	if rec.InvestmentDate != "" {
		parts = append(parts, rec.InvestmentDate)
	}
	return strings.Join(parts, " · ")
}

func overviewBody(rec recordx.Record) string {
	lines := []string{
		"Founded: " + strconv.Itoa(rec.FoundingYear),
		"Revenue: " + formatAmount(rec.Revenue),
		"Industry: " + rec.Industry,
		"Burn Rate: " + formatAmount(rec.BurnRate),
		"Exit Strategy: " + rec.ExitStrategy,
	}
	return strings.Join(lines, "\n")
}

func dealBody(rec recordx.Record) string {
	lines := []string{
		"Deal Status: " + rec.DealStatus,
		"Funding Stage: " + rec.FundingStage,
		"Investment Amount: " + formatAmount(rec.InvestmentAmount),
		"Investment Date: " + rec.InvestmentDate,
	}
	return strings.Join(lines, "\n")
}

func formatAmount(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}
