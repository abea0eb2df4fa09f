package agr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRowExtractionJS(t *testing.T) {
	js, err := buildRowExtractionJS(movementsPlan)
	require.NoError(t, err)
	require.Contains(t, js, `"tbody tr"`)
	require.Contains(t, js, `"field":"reward_name","index":5,"prefer":"a"`)
	require.Contains(t, js, `"field":"quantity","index":8`)
	require.NotContains(t, js, `"prefer":""`, "empty preferences are omitted")
	require.NotContains(t, js, `"fallbacks"`, "movement cells have no fallback chain")
}

func TestBuildRowExtractionJSFallbackChain(t *testing.T) {
	js, err := buildRowExtractionJS(rewardsPlan)
	require.NoError(t, err)
	require.Contains(t, js, `"field":"description","index":3,"prefer":"p","fallbacks":[2]`)
	require.Contains(t, js, `col.fallbacks`, "fallback cells are tried in-page")
	require.Contains(t, js, `row.querySelector(col.prefer)`, "preferred element anywhere in the row is the last resort")
}

func TestBuildRowExtractionJSRequiredFields(t *testing.T) {
	js, err := buildRowExtractionJS(productsPlan)
	require.NoError(t, err)
	require.Contains(t, js, `"tbody tr.news-item"`)
	require.Contains(t, js, `["description","category","season","location","stock"]`)

	js, err = buildRowExtractionJS(movementsPlan)
	require.NoError(t, err)
	require.Contains(t, js, "})([", "movements keep rows with empty fields")
	require.Contains(t, js, "], [])")
}

func TestMovementsPageURL(t *testing.T) {
	got := movementsPageURL("https://adm.agrcloud.com.ar", "2025-11-01", "2025-11-28T23:59:59", 2, 20)
	require.Equal(t,
		"https://adm.agrcloud.com.ar/filtered/items/movements/details/service/2"+
			"?startDate=2025-11-01&endDate=2025-11-28T23%3A59%3A59&orderBy=date-desc&page=2&pageSize=20",
		got)
}

func TestItemsPageURL(t *testing.T) {
	got := itemsPageURL("https://adm.agrcloud.com.ar"+stocksPath, 3, 50)
	require.Equal(t,
		"https://adm.agrcloud.com.ar/filtered/stocks/2?orderBy=description-asc&page=3&pageSize=50",
		got)
}
