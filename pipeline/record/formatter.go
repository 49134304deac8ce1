package record

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

// Source database column names. The formatter is tolerant: a column that is
// missing or carries an unexpected property type yields the zero value.
const (
	propCompanyName      = "Company Name"
	propLocation         = "Location"
	propFoundingYear     = "Founded"
	propRevenue          = "Revenue"
	propIndustry         = "Industry"
	propBurnRate         = "Burn Rate"
	propExitStrategy     = "Exit Strategy"
	propDealStatus       = "Deal Status"
	propFundingStage     = "Funding Stage"
	propInvestmentAmount = "Investment Amount"
	propInvestmentDate   = "Investment Date"
	propNotes            = "Notes"
)

// FromPage normalizes one raw database row into a flat Record.
func FromPage(page notionapi.Page) Record {
	props := page.Properties
	return Record{
		CompanyName:      titleText(props, propCompanyName),
		Location:         textOrSelect(props, propLocation),
		FoundingYear:     int(number(props, propFoundingYear)),
		Revenue:          number(props, propRevenue),
		Industry:         textOrSelect(props, propIndustry),
		BurnRate:         number(props, propBurnRate),
		ExitStrategy:     textOrSelect(props, propExitStrategy),
		DealStatus:       textOrSelect(props, propDealStatus),
		FundingStage:     textOrSelect(props, propFundingStage),
		InvestmentAmount: number(props, propInvestmentAmount),
		InvestmentDate:   dateStart(props, propInvestmentDate),
		Notes:            textOrSelect(props, propNotes),
	}
}

func titleText(props notionapi.Properties, key string) string {
	p, ok := props[key].(*notionapi.TitleProperty)
	if !ok {
		return ""
	}
	return plainText(p.Title)
}

// textOrSelect reads a column regardless of whether it was modeled as rich
// text, a select, or a status in the source database.
func textOrSelect(props notionapi.Properties, key string) string {
	switch p := props[key].(type) {
	case *notionapi.RichTextProperty:
		return plainText(p.RichText)
	case *notionapi.SelectProperty:
		return strings.TrimSpace(p.Select.Name)
	case *notionapi.StatusProperty:
		return strings.TrimSpace(p.Status.Name)
	case *notionapi.TitleProperty:
		return plainText(p.Title)
	default:
		return ""
	}
}

func number(props notionapi.Properties, key string) float64 {
	p, ok := props[key].(*notionapi.NumberProperty)
	if !ok {
		return 0
	}
	return p.Number
}

func dateStart(props notionapi.Properties, key string) string {
	p, ok := props[key].(*notionapi.DateProperty)
	if !ok || p.Date == nil || p.Date.Start == nil {
		return ""
	}
	return time.Time(*p.Date.Start).Format("2006-01-02")
}

func plainText(parts []notionapi.RichText) string {
	if len(parts) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.PlainText)
	}
	return strings.TrimSpace(sb.String())
}
