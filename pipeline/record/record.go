package record

import "encoding/json"

// Record is one company's flattened attribute set. It is immutable once read
// from the source database; only PresentationID is assigned later, after a
// deck has been created for it.
type Record struct {
	CompanyName      string  `json:"companyName" csv:"company_name"`
	Location         string  `json:"location" csv:"location"`
	FoundingYear     int     `json:"foundingYear" csv:"founding_year"`
	Revenue          float64 `json:"revenue" csv:"revenue"`
	Industry         string  `json:"industry" csv:"industry"`
	BurnRate         float64 `json:"burnRate" csv:"burn_rate"`
	ExitStrategy     string  `json:"exitStrategy" csv:"exit_strategy"`
	DealStatus       string  `json:"dealStatus" csv:"deal_status"`
	FundingStage     string  `json:"fundingStage" csv:"funding_stage"`
	InvestmentAmount float64 `json:"investmentAmount" csv:"investment_amount"`
	InvestmentDate   string  `json:"investmentDate" csv:"investment_date"`
	Notes            string  `json:"notes" csv:"notes"`
	PresentationID   string  `json:"presentationId,omitempty" csv:"presentation_id"`
}

// FromArgs rebuilds a Record from a loosely typed argument map, as delivered
// by a tool call. Unknown keys are ignored; missing keys keep zero values.
func FromArgs(args map[string]any) (Record, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
