package normalizer

import "stockview/internal/core/odoo"

// Transfer is the card view-model of a picking (stock.picking).
type Transfer struct {
	ID             string `json:"id"`
	Reference      string `json:"reference"`
	Status         string `json:"status"`
	Contact        string `json:"contact"`
	From           string `json:"from"`
	To             string `json:"to"`
	OperationType  string `json:"operationType"`
	Batch          string `json:"batch"`
	ScheduledDate  string `json:"scheduledDate"`
	SourceDocument string `json:"sourceDocument"`
	Operations     int    `json:"operations"`
}

// NormalizePicking converts a raw stock.picking record.
//
// Operations counts move_line_ids when it is a list and falls back to
// move_lines otherwise; the two are never added together.
func NormalizePicking(raw any) (Transfer, error) {
	r, err := odoo.AsRecord("transfer", raw)
	if err != nil {
		return Transfer{}, err
	}

	return Transfer{
		ID:             r.Many2OneID("id"),
		Reference:      r.String("name"),
		Status:         PickingStatus(r.StringOr("state", "draft")),
		Contact:        r.Many2One("partner_id"),
		From:           r.Many2One("location_id"),
		To:             r.Many2One("location_dest_id"),
		OperationType:  r.Many2One("picking_type_id"),
		Batch:          r.Many2One("batch_id"),
		ScheduledDate:  r.Date("scheduled_date"),
		SourceDocument: r.String("origin"),
		Operations:     countMoveLines(r),
	}, nil
}

func countMoveLines(r odoo.Record) int {
	if lines, ok := r.List("move_line_ids"); ok {
		return len(lines)
	}
	if lines, ok := r.List("move_lines"); ok {
		return len(lines)
	}
	return 0
}

func (t Transfer) SearchFields() []string {
	return []string{t.Reference, t.Contact, t.From, t.To, t.SourceDocument, t.Batch}
}

func (t Transfer) FilterFields() map[string]any {
	return map[string]any{
		"id":             t.ID,
		"reference":      t.Reference,
		"status":         t.Status,
		"contact":        t.Contact,
		"from":           t.From,
		"to":             t.To,
		"operationType":  t.OperationType,
		"batch":          t.Batch,
		"scheduledDate":  t.ScheduledDate,
		"sourceDocument": t.SourceDocument,
		"operations":     int64(t.Operations),
	}
}
