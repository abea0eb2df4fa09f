package agr

import (
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
)

// ColumnSpec selects the nth table cell of a row. When Prefer names a nested
// element (e.g. "a" or "p"), that element's text wins over the full cell
// text when present. Fallbacks lists further cell indices tried in order when
// the primary cell yields nothing; as a last resort the preferred element is
// looked up anywhere in the row.
type ColumnSpec struct {
	Field     string `json:"field"`
	Index     int    `json:"index"`
	Prefer    string `json:"prefer,omitempty"`
	Fallbacks []int  `json:"fallbacks,omitempty"`
}

// TablePlan is a declarative extraction plan for one portal table: which rows
// to read, which cells map to which fields, and which fields must be
// non-empty for a row to be kept at all.
type TablePlan struct {
	RowSelector string
	Columns     []ColumnSpec
	Required    []string
}

// rowExtractionJS walks the table in-page and returns one object per row.
// Cell text is cleaned (NFKC, NBSP, whitespace runs) the same way comparison
// keys are normalized later.
const rowExtractionJS = `
(function(plan, required) {
	var clean = function(s) {
		return (s || '').toString().normalize('NFKC').replace(/ /g, ' ').replace(/\s+/g, ' ').trim();
	};
	var out = [];
	document.querySelectorAll(%q).forEach(function(row) {
		var rec = {};
		plan.forEach(function(col) {
			var idxs = [col.index].concat(col.fallbacks || []);
			var text = '';
			for (var j = 0; j < idxs.length && !text; j++) {
				var td = row.querySelector('td:nth-child(' + idxs[j] + ')');
				if (td) {
					var el = col.prefer ? td.querySelector(col.prefer) : null;
					text = clean((el ? el.innerText : td.innerText) || '');
				}
			}
			if (!text && col.fallbacks && col.fallbacks.length && col.prefer) {
				var any = row.querySelector(col.prefer);
				if (any) text = clean(any.innerText || '');
			}
			rec[col.field] = text;
		});
		for (var i = 0; i < required.length; i++) {
			if (!rec[required[i]]) return;
		}
		out.push(rec);
	});
	return out;
})(%s, %s)
`

// paginationPagesJS reads the highest numeric label off the pagination
// control; a missing control means a single page.
const paginationPagesJS = `
(function() {
	var nums = [];
	document.querySelectorAll('ul.pagination button.page').forEach(function(btn) {
		var n = parseInt(btn.textContent.trim(), 10);
		if (!isNaN(n)) nums.push(n);
	});
	return nums.length ? Math.max.apply(null, nums) : 1;
})()
`

// extractRows runs the plan against the currently loaded page.
func (s *Session) extractRows(plan TablePlan) ([]map[string]string, error) {
	js, err := buildRowExtractionJS(plan)
	if err != nil {
		return nil, err
	}
	var rows []map[string]string
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &rows)); err != nil {
		return nil, fmt.Errorf("row extraction failed: %w", err)
	}
	return rows, nil
}

func buildRowExtractionJS(plan TablePlan) (string, error) {
	cols, err := json.Marshal(plan.Columns)
	if err != nil {
		return "", fmt.Errorf("marshal column plan: %w", err)
	}
	required := plan.Required
	if required == nil {
		required = []string{}
	}
	req, err := json.Marshal(required)
	if err != nil {
		return "", fmt.Errorf("marshal required fields: %w", err)
	}
	return fmt.Sprintf(rowExtractionJS, plan.RowSelector, cols, req), nil
}

// totalPages discovers the page count from the pagination control of the
// currently loaded page.
func (s *Session) totalPages() (int, error) {
	var total int
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(paginationPagesJS, &total)); err != nil {
		return 0, fmt.Errorf("pagination discovery failed: %w", err)
	}
	if total < 1 {
		total = 1
	}
	return total, nil
}
