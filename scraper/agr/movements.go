package agr

import (
	"fmt"
	"net/url"

	"agr-scraper/models"
	"agr-scraper/utils"
)

const movementsPath = "/filtered/items/movements/details/service/2"

// movementsPlan maps the movements table columns. Document and reward cells
// render as hyperlinks, so link text is preferred there. No field is
// required: movement rows are kept even with blanks.
var movementsPlan = TablePlan{
	RowSelector: tableRowsSelector,
	Columns: []ColumnSpec{
		{Field: "date", Index: 1},
		{Field: "entity", Index: 2},
		{Field: "movement_type", Index: 3},
		{Field: "document_ref", Index: 4, Prefer: "a"},
		{Field: "reward_name", Index: 5, Prefer: "a"},
		{Field: "source_deposit", Index: 6},
		{Field: "dest_deposit", Index: 7},
		{Field: "quantity", Index: 8},
	},
}

// ScrapeMovements pulls every movement row inside the date window. The
// movements table exposes no total page count, so pagination runs until a
// page times out waiting for rows, returns zero rows, or returns fewer rows
// than the page size.
func (s *Session) ScrapeMovements(startDate, endDate string) ([]models.RawMovement, error) {
	pageSize := s.cfg.MovementsPageSize
	var all []models.RawMovement

	for pageNum := 1; ; pageNum++ {
		pageURL := movementsPageURL(s.cfg.BaseURL, startDate, endDate, pageNum, pageSize)
		s.logger.Info("Loading page %d -> %s", pageNum, pageURL)

		if err := s.navigate(pageURL); err != nil {
			return nil, fmt.Errorf("movements page %d: %w", pageNum, err)
		}
		if !s.waitForRows() {
			if err := s.ctx.Err(); err != nil {
				return nil, fmt.Errorf("movements page %d: %w", pageNum, err)
			}
			break
		}

		rows, err := s.extractRows(movementsPlan)
		if err != nil {
			return nil, fmt.Errorf("movements page %d: %w", pageNum, err)
		}
		if len(rows) == 0 {
			break
		}

		for _, r := range rows {
			all = append(all, models.RawMovement{
				Date:          r["date"],
				Entity:        r["entity"],
				MovementType:  r["movement_type"],
				DocumentRef:   r["document_ref"],
				RewardName:    r["reward_name"],
				SourceDeposit: r["source_deposit"],
				DestDeposit:   r["dest_deposit"],
				Quantity:      utils.ParseCount(r["quantity"]),
			})
		}
		if len(rows) < pageSize {
			break
		}
	}

	s.logger.Info("Total movements extracted: %d", len(all))
	return all, nil
}

func movementsPageURL(base, startDate, endDate string, page, pageSize int) string {
	return fmt.Sprintf("%s%s?startDate=%s&endDate=%s&orderBy=date-desc&page=%d&pageSize=%d",
		base, movementsPath, url.QueryEscape(startDate), url.QueryEscape(endDate), page, pageSize)
}
