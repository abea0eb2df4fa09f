package agr

import (
	"fmt"

	"agr-scraper/models"
)

const (
	stocksPath  = "/filtered/stocks/2?orderBy=description-asc"
	rewardsPath = "/filtered/items/2?minCost=0.00&maxCost=100000.00&minPoints=0.00&maxPoints=100000.00"
)

// productsPlan maps the stock table. Every field is required; rows missing
// any of them are dropped in-page.
var productsPlan = TablePlan{
	RowSelector: "tbody tr.news-item",
	Columns: []ColumnSpec{
		{Field: "description", Index: 3, Prefer: "p"},
		{Field: "category", Index: 4},
		{Field: "season", Index: 5},
		{Field: "location", Index: 7},
		{Field: "stock", Index: 9},
	},
	Required: []string{"description", "category", "season", "location", "stock"},
}

// rewardsPlan maps the reward catalog table. Only the description is
// required; some catalog rows render the description <p> in the 2nd cell, so
// the description column carries a fallback chain.
var rewardsPlan = TablePlan{
	RowSelector: tableRowsSelector,
	Columns: []ColumnSpec{
		{Field: "description", Index: 3, Prefer: "p", Fallbacks: []int{2}},
		{Field: "category", Index: 4},
		{Field: "cost", Index: 6},
		{Field: "price", Index: 7},
		{Field: "points", Index: 8},
		{Field: "status", Index: 9},
	},
	Required: []string{"description"},
}

// ScrapeProducts pulls every product stock row (one row per product per
// deposit location).
func (s *Session) ScrapeProducts() ([]models.RawProduct, error) {
	rows, err := s.scrapeFixedPages(s.cfg.BaseURL+stocksPath, productsPlan, "Products")
	if err != nil {
		return nil, err
	}
	products := make([]models.RawProduct, 0, len(rows))
	for _, r := range rows {
		products = append(products, models.RawProduct{
			Description: r["description"],
			Category:    r["category"],
			Season:      r["season"],
			Location:    r["location"],
			Stock:       r["stock"],
		})
	}
	return products, nil
}

// ScrapeRewards pulls the reward catalog.
func (s *Session) ScrapeRewards() ([]models.RawReward, error) {
	rows, err := s.scrapeFixedPages(s.cfg.BaseURL+rewardsPath, rewardsPlan, "Rewards")
	if err != nil {
		return nil, err
	}
	rewards := make([]models.RawReward, 0, len(rows))
	for _, r := range rows {
		rewards = append(rewards, models.RawReward{
			Description: r["description"],
			Category:    r["category"],
			Cost:        r["cost"],
			Price:       r["price"],
			Points:      r["points"],
			Status:      r["status"],
		})
	}
	return rewards, nil
}

// scrapeFixedPages implements the fixed-total-pages pagination policy: the
// page count is discovered once from the pagination control, then every page
// is visited. A page that loads without rows contributes nothing and the loop
// continues; only navigation failures abort.
func (s *Session) scrapeFixedPages(base string, plan TablePlan, label string) ([]map[string]string, error) {
	if err := s.navigate(itemsPageURL(base, 1, s.cfg.ItemsPageSize)); err != nil {
		return nil, fmt.Errorf("%s first page: %w", label, err)
	}
	if !s.waitForRows() {
		if err := s.ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s first page: %w", label, err)
		}
	}

	total, err := s.totalPages()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	s.logger.Info("%s: detected %d pages", label, total)

	var all []map[string]string
	for page := 1; page <= total; page++ {
		s.logger.Info("%s: extracting page %d...", label, page)
		if err := s.navigate(itemsPageURL(base, page, s.cfg.ItemsPageSize)); err != nil {
			return nil, fmt.Errorf("%s page %d: %w", label, page, err)
		}
		if !s.waitForRows() {
			if err := s.ctx.Err(); err != nil {
				return nil, fmt.Errorf("%s page %d: %w", label, page, err)
			}
			s.logger.Warn("%s: no rows found on page %d", label, page)
			continue
		}

		rows, err := s.extractRows(plan)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", label, page, err)
		}
		s.logger.Info("%s: %d rows on page %d", label, len(rows), page)
		all = append(all, rows...)
	}
	return all, nil
}

func itemsPageURL(base string, page, pageSize int) string {
	return fmt.Sprintf("%s&page=%d&pageSize=%d", base, page, pageSize)
}
